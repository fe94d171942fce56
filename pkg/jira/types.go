package jira

import (
	"encoding/json"
	"net/url"
	"time"
)

// API roots for the two JIRA REST surfaces. Issue-area operations target the
// core REST API; board and sprint operations target the Agile API. The
// transport and retry layers are agnostic to which root a path uses.
const (
	apiRoot   = "/rest/api/3"
	agileRoot = "/rest/agile/1.0"
)

// Config contains the configuration for a Client. It is treated as immutable
// after construction.
type Config struct {
	// BaseURL is the JIRA instance base URL, e.g. "https://acme.atlassian.net".
	// Trailing slashes are stripped.
	BaseURL string

	// Email is the Atlassian account email used for basic auth.
	Email string

	// APIToken is the Atlassian API token paired with Email.
	APIToken string

	// Timeout bounds each individual network attempt.
	// Default: 15s
	Timeout time.Duration

	// MaxAttempts is the total attempt budget per operation, including the
	// first attempt.
	// Default: 3
	MaxAttempts int

	// BackoffBase is the base delay for exponential backoff. Successive
	// retries sleep BackoffBase * 2^(attempt-1).
	// Default: 500ms
	BackoffBase time.Duration

	// Fields configures the display names of the custom fields resolved by
	// the field mapping cache.
	Fields FieldNames

	// FieldCacheTTL is how long a fetched field mapping stays valid.
	// Default: 5m
	FieldCacheTTL time.Duration

	// MaxIdleConns and MaxIdleConnsPerHost tune the connection pool.
	// Defaults: 100 and 10.
	MaxIdleConns        int
	MaxIdleConnsPerHost int
}

// FieldNames holds the per-instance display names of the custom fields the
// client resolves at runtime.
type FieldNames struct {
	// StoryPoints is the display name of the story points field.
	// Default: "Story points"
	StoryPoints string

	// EpicLink is the display name of the epic link field.
	// Default: "Epic Link"
	EpicLink string

	// EpicName is the display name of the epic name field.
	// Default: "Epic Name"
	EpicName string
}

// withDefaults returns a copy of the config with zero values replaced by
// defaults.
func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BackoffBase <= 0 {
		c.BackoffBase = 500 * time.Millisecond
	}
	if c.FieldCacheTTL <= 0 {
		c.FieldCacheTTL = 5 * time.Minute
	}
	if c.Fields.StoryPoints == "" {
		c.Fields.StoryPoints = "Story points"
	}
	if c.Fields.EpicLink == "" {
		c.Fields.EpicLink = "Epic Link"
	}
	if c.Fields.EpicName == "" {
		c.Fields.EpicName = "Epic Name"
	}
	if c.MaxIdleConns <= 0 {
		c.MaxIdleConns = 100
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = 10
	}
	return c
}

// RequestDescriptor describes one outbound JIRA request. Descriptors are
// created per call and never reused.
type RequestDescriptor struct {
	// Method is the HTTP method.
	Method string

	// Path is the request path relative to the base URL, including the API
	// root (e.g. "/rest/api/3/search").
	Path string

	// Query contains the query parameters, if any.
	Query url.Values

	// Body is marshaled to JSON when non-nil.
	Body any
}

// RawResponse is the verbatim outcome of a single upstream attempt: the
// status code and the full response body. JSON decoding happens lazily via
// Decode.
type RawResponse struct {
	// StatusCode is the upstream HTTP status.
	StatusCode int

	// Header contains the upstream response headers.
	Header map[string][]string

	// Body is the full response body.
	Body []byte
}

// Decode unmarshals the response body into v. An empty body leaves v
// untouched.
func (r *RawResponse) Decode(v any) error {
	if len(r.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return &Error{
			Kind:       KindServer,
			Message:    "failed to decode JIRA response",
			StatusCode: r.StatusCode,
			Details:    string(r.Body),
			Cause:      err,
		}
	}
	return nil
}

// CreateIssueInput describes a plain issue creation.
type CreateIssueInput struct {
	ProjectKey  string
	Summary     string
	Description *string
	IssueType   string
}

// CreateEpicInput describes an epic creation. EpicName populates the
// instance's Epic Name custom field and requires a field mapping.
type CreateEpicInput struct {
	ProjectKey  string
	EpicName    string
	Summary     string
	Description *string
}

// CreateStoryInput describes a story creation. ParentEpicKey and StoryPoints
// are optional; field mappings are resolved only for the options actually
// supplied.
type CreateStoryInput struct {
	ProjectKey    string
	Summary       string
	Description   *string
	ParentEpicKey *string
	StoryPoints   *float64
}

// CreatedIssue is JIRA's response to a successful issue creation.
type CreatedIssue struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Self string `json:"self"`
}

// Transition is one legal workflow transition for an issue.
type Transition struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Board is a board from the JIRA Agile API.
type Board struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// BoardPage is a paginated board listing.
type BoardPage struct {
	StartAt    int     `json:"startAt"`
	MaxResults int     `json:"maxResults"`
	IsLast     bool    `json:"isLast"`
	Values     []Board `json:"values"`
}

// Sprint is a sprint from the JIRA Agile API.
type Sprint struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	State         string `json:"state,omitempty"`
	StartDate     string `json:"startDate,omitempty"`
	EndDate       string `json:"endDate,omitempty"`
	CompleteDate  string `json:"completeDate,omitempty"`
	OriginBoardID int    `json:"originBoardId,omitempty"`
	Goal          string `json:"goal,omitempty"`
}

// SprintPage is a paginated sprint listing.
type SprintPage struct {
	StartAt    int      `json:"startAt"`
	MaxResults int      `json:"maxResults"`
	IsLast     bool     `json:"isLast"`
	Values     []Sprint `json:"values"`
}

// CreateSprintInput describes a sprint creation. OriginBoardID is required
// by the Agile API; dates use ISO-8601 strings as JIRA returns them.
type CreateSprintInput struct {
	Name          string  `json:"name"`
	OriginBoardID int     `json:"originBoardId"`
	StartDate     *string `json:"startDate,omitempty"`
	EndDate       *string `json:"endDate,omitempty"`
	Goal          *string `json:"goal,omitempty"`
}

// UpdateSprintInput describes a partial sprint update. Only non-nil fields
// are sent.
type UpdateSprintInput struct {
	Name      *string `json:"name,omitempty"`
	State     *string `json:"state,omitempty"`
	StartDate *string `json:"startDate,omitempty"`
	EndDate   *string `json:"endDate,omitempty"`
	Goal      *string `json:"goal,omitempty"`
}
