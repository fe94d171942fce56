package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultMaxSearchResults is the search page size applied when the caller
// does not specify one. Callers range-check requested sizes to 1-100 at the
// service boundary.
const DefaultMaxSearchResults = 25

// Client is the resilient JIRA API client. It composes the single-attempt
// Transport, the retry engine and the field mapping cache, and exposes the
// domain operations on top of them.
//
// A Client is safe for concurrent use. Each in-flight operation has its own
// request descriptor and retry state; the field mapping cache is the only
// shared mutable state.
type Client struct {
	cfg       Config
	transport *Transport
	fields    *fieldCache
	observer  Observer
	sleep     func(context.Context, time.Duration) error
}

// Option customizes a Client.
type Option func(*Client)

// WithObserver attaches a telemetry observer.
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// NewClient creates a Client. BaseURL, Email and APIToken are required;
// everything else falls back to defaults.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" || cfg.Email == "" || cfg.APIToken == "" {
		return nil, configError("JIRA configuration is incomplete: base URL, email and API token are required")
	}
	cfg = cfg.withDefaults()

	c := &Client{
		cfg:       cfg,
		transport: NewTransport(cfg),
		sleep:     sleepContext,
	}
	c.fields = newFieldCache(c, cfg)

	for _, opt := range opts {
		opt(c)
	}

	slog.Info("JIRA client initialized",
		"base_url", c.transport.baseURL,
		"timeout", cfg.Timeout,
		"max_attempts", cfg.MaxAttempts,
	)
	return c, nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() {
	c.transport.Close()
}

// FieldMap returns the current logical-name -> customfield-ID mapping,
// fetching it from JIRA when the cached entry has expired.
func (c *Client) FieldMap(ctx context.Context) (map[string]string, error) {
	return c.fields.get(ctx)
}

// RefreshFieldMap forces a field mapping fetch regardless of TTL.
func (c *Client) RefreshFieldMap(ctx context.Context) error {
	_, err := c.fields.refresh(ctx)
	return err
}

// SearchIssues runs a JQL search and returns the upstream response body
// unmodified. fields, when non-empty, restricts the returned issue fields;
// maxResults <= 0 falls back to DefaultMaxSearchResults.
func (c *Client) SearchIssues(ctx context.Context, jql string, fields []string, maxResults int) (json.RawMessage, error) {
	if maxResults <= 0 {
		maxResults = DefaultMaxSearchResults
	}

	query := url.Values{}
	query.Set("jql", jql)
	query.Set("maxResults", fmt.Sprintf("%d", maxResults))
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   apiRoot + "/search",
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// SearchIssuesParams builds a JQL expression from structured filters and
// runs SearchIssues with it.
func (c *Client) SearchIssuesParams(ctx context.Context, params SearchParams, maxResults int) (json.RawMessage, error) {
	return c.SearchIssues(ctx, BuildJQL(params), nil, maxResults)
}

// GetIssue fetches a single issue by key, optionally restricted to the given
// fields. The upstream body is returned unmodified.
func (c *Client) GetIssue(ctx context.Context, issueKey string, fields []string) (json.RawMessage, error) {
	query := url.Values{}
	if len(fields) > 0 {
		query.Set("fields", strings.Join(fields, ","))
	}

	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   apiRoot + "/issue/" + url.PathEscape(issueKey),
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// CreateIssue creates a plain issue. The description is omitted from the
// payload when absent, never sent as null.
func (c *Client) CreateIssue(ctx context.Context, in CreateIssueInput) (*CreatedIssue, error) {
	fields := map[string]any{
		"project":   map[string]string{"key": in.ProjectKey},
		"summary":   in.Summary,
		"issuetype": map[string]string{"name": in.IssueType},
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	return c.createIssue(ctx, fields)
}

// CreateEpic creates an epic, populating the instance's Epic Name custom
// field. It fails with a config error when the instance has no field
// matching the configured Epic Name display name.
func (c *Client) CreateEpic(ctx context.Context, in CreateEpicInput) (*CreatedIssue, error) {
	epicNameID, err := c.fields.require(ctx, FieldEpicName)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{
		"project":   map[string]string{"key": in.ProjectKey},
		"summary":   in.Summary,
		"issuetype": map[string]string{"name": "Epic"},
		epicNameID:  in.EpicName,
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	return c.createIssue(ctx, fields)
}

// CreateStory creates a story. Story points and epic link mappings are
// resolved only when the corresponding option is supplied, so a plain story
// never triggers a field-map fetch.
func (c *Client) CreateStory(ctx context.Context, in CreateStoryInput) (*CreatedIssue, error) {
	fields := map[string]any{
		"project":   map[string]string{"key": in.ProjectKey},
		"summary":   in.Summary,
		"issuetype": map[string]string{"name": "Story"},
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.StoryPoints != nil {
		id, err := c.fields.require(ctx, FieldStoryPoints)
		if err != nil {
			return nil, err
		}
		fields[id] = *in.StoryPoints
	}
	if in.ParentEpicKey != nil {
		id, err := c.fields.require(ctx, FieldEpicLink)
		if err != nil {
			return nil, err
		}
		fields[id] = *in.ParentEpicKey
	}
	return c.createIssue(ctx, fields)
}

func (c *Client) createIssue(ctx context.Context, fields map[string]any) (*CreatedIssue, error) {
	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodPost,
		Path:   apiRoot + "/issue",
		Body:   map[string]any{"fields": fields},
	})
	if err != nil {
		return nil, err
	}

	var created CreatedIssue
	if err := resp.Decode(&created); err != nil {
		return nil, err
	}
	return &created, nil
}

// LinkIssueToEpic sets the issue's Epic Link field to the given epic.
// Requires the Epic Link field mapping.
func (c *Client) LinkIssueToEpic(ctx context.Context, epicKey, issueKey string) error {
	epicLinkID, err := c.fields.require(ctx, FieldEpicLink)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, &RequestDescriptor{
		Method: http.MethodPut,
		Path:   apiRoot + "/issue/" + url.PathEscape(issueKey),
		Body: map[string]any{
			"fields": map[string]any{epicLinkID: epicKey},
		},
	})
	return err
}

// GetTransitions lists the legal workflow transitions for an issue.
func (c *Client) GetTransitions(ctx context.Context, issueKey string) ([]Transition, error) {
	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   apiRoot + "/issue/" + url.PathEscape(issueKey) + "/transitions",
	})
	if err != nil {
		return nil, err
	}

	var out struct {
		Transitions []Transition `json:"transitions"`
	}
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return out.Transitions, nil
}

// TransitionIssue applies a workflow transition by ID. Resolving a human
// transition name to an ID is the caller's concern, via GetTransitions.
func (c *Client) TransitionIssue(ctx context.Context, issueKey, transitionID string) error {
	_, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodPost,
		Path:   apiRoot + "/issue/" + url.PathEscape(issueKey) + "/transitions",
		Body: map[string]any{
			"transition": map[string]string{"id": transitionID},
		},
	})
	return err
}

// AddComment adds a comment to an issue and returns the upstream response
// body unmodified.
func (c *Client) AddComment(ctx context.Context, issueKey, body string) (json.RawMessage, error) {
	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodPost,
		Path:   apiRoot + "/issue/" + url.PathEscape(issueKey) + "/comment",
		Body:   map[string]string{"body": body},
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// EstimateStoryPoints sets the issue's story points. Requires the Story
// Points field mapping.
func (c *Client) EstimateStoryPoints(ctx context.Context, issueKey string, points float64) error {
	storyPointsID, err := c.fields.require(ctx, FieldStoryPoints)
	if err != nil {
		return err
	}

	_, err = c.do(ctx, &RequestDescriptor{
		Method: http.MethodPut,
		Path:   apiRoot + "/issue/" + url.PathEscape(issueKey),
		Body: map[string]any{
			"fields": map[string]any{storyPointsID: points},
		},
	})
	return err
}
