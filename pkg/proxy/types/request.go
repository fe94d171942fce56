package types

import (
	"fmt"

	"mercator-hq/ganymede/pkg/jira"
)

// MaxSearchResults caps the page size accepted on search and sprint-issue
// listings.
const MaxSearchResults = 100

// MaxSprintMoveKeys caps how many issue keys a single sprint move accepts.
const MaxSprintMoveKeys = 100

// SearchParamsRequest is the body of POST /api/v1/jira/search/params.
// All filters are optional; absent filters contribute no JQL clause.
type SearchParamsRequest struct {
	Project    *string  `json:"project,omitempty"`
	BoardID    *int     `json:"board_id,omitempty"`
	SprintID   *int     `json:"sprint_id,omitempty"`
	Assignee   *string  `json:"assignee,omitempty"`
	Status     *string  `json:"status,omitempty"`
	MaxResults int      `json:"max_results,omitempty"`
	Fields     []string `json:"fields,omitempty"`
}

// Validate checks the request.
func (r *SearchParamsRequest) Validate() error {
	return validateMaxResults(r.MaxResults)
}

// Params converts the request into the jira package's filter struct.
func (r *SearchParamsRequest) Params() jira.SearchParams {
	return jira.SearchParams{
		Project:  r.Project,
		BoardID:  r.BoardID,
		SprintID: r.SprintID,
		Assignee: r.Assignee,
		Status:   r.Status,
	}
}

// CreateIssueRequest is the body of POST /api/v1/jira/issues.
type CreateIssueRequest struct {
	ProjectKey  string  `json:"project_key"`
	Summary     string  `json:"summary"`
	Description *string `json:"description,omitempty"`
	IssueType   string  `json:"issue_type"`
}

// Validate checks the request.
func (r *CreateIssueRequest) Validate() error {
	if r.ProjectKey == "" {
		return fmt.Errorf("project_key is required")
	}
	if r.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	if r.IssueType == "" {
		return fmt.Errorf("issue_type is required")
	}
	return nil
}

// CreateEpicRequest is the body of POST /api/v1/jira/epics.
type CreateEpicRequest struct {
	ProjectKey  string  `json:"project_key"`
	EpicName    string  `json:"epic_name"`
	Summary     string  `json:"summary"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the request.
func (r *CreateEpicRequest) Validate() error {
	if r.ProjectKey == "" {
		return fmt.Errorf("project_key is required")
	}
	if r.EpicName == "" {
		return fmt.Errorf("epic_name is required")
	}
	if r.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	return nil
}

// CreateStoryRequest is the body of POST /api/v1/jira/stories.
type CreateStoryRequest struct {
	ProjectKey    string   `json:"project_key"`
	Summary       string   `json:"summary"`
	Description   *string  `json:"description,omitempty"`
	ParentEpicKey *string  `json:"parent_epic_key,omitempty"`
	StoryPoints   *float64 `json:"story_points,omitempty"`
}

// Validate checks the request.
func (r *CreateStoryRequest) Validate() error {
	if r.ProjectKey == "" {
		return fmt.Errorf("project_key is required")
	}
	if r.Summary == "" {
		return fmt.Errorf("summary is required")
	}
	if r.StoryPoints != nil && *r.StoryPoints < 0 {
		return fmt.Errorf("story_points must not be negative")
	}
	return nil
}

// EpicLinkRequest is the body of POST /api/v1/jira/issues/{key}/epic.
type EpicLinkRequest struct {
	EpicKey string `json:"epic_key"`
}

// Validate checks the request.
func (r *EpicLinkRequest) Validate() error {
	if r.EpicKey == "" {
		return fmt.Errorf("epic_key is required")
	}
	return nil
}

// TransitionRequest is the body of POST /api/v1/jira/issues/{key}/transitions.
// Either the transition ID or its display name must be supplied; names are
// resolved against the issue's legal transitions.
type TransitionRequest struct {
	TransitionID   string `json:"transition_id,omitempty"`
	TransitionName string `json:"transition_name,omitempty"`
}

// Validate checks the request.
func (r *TransitionRequest) Validate() error {
	if r.TransitionID == "" && r.TransitionName == "" {
		return fmt.Errorf("transition_id or transition_name is required")
	}
	return nil
}

// CommentRequest is the body of POST /api/v1/jira/issues/{key}/comment.
type CommentRequest struct {
	Body string `json:"body"`
}

// Validate checks the request.
func (r *CommentRequest) Validate() error {
	if r.Body == "" {
		return fmt.Errorf("body is required")
	}
	return nil
}

// EstimateRequest is the body of POST /api/v1/jira/issues/{key}/estimate.
type EstimateRequest struct {
	StoryPoints *float64 `json:"story_points"`
}

// Validate checks the request.
func (r *EstimateRequest) Validate() error {
	if r.StoryPoints == nil {
		return fmt.Errorf("story_points is required")
	}
	if *r.StoryPoints < 0 {
		return fmt.Errorf("story_points must not be negative")
	}
	return nil
}

// CreateSprintRequest is the body of POST /api/v1/jira/sprints.
type CreateSprintRequest struct {
	Name          string  `json:"name"`
	OriginBoardID int     `json:"origin_board_id"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Goal          *string `json:"goal,omitempty"`
}

// Validate checks the request.
func (r *CreateSprintRequest) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("name is required")
	}
	if r.OriginBoardID <= 0 {
		return fmt.Errorf("origin_board_id is required")
	}
	return nil
}

// Input converts the request into the jira package's input struct.
func (r *CreateSprintRequest) Input() jira.CreateSprintInput {
	return jira.CreateSprintInput{
		Name:          r.Name,
		OriginBoardID: r.OriginBoardID,
		StartDate:     r.StartDate,
		EndDate:       r.EndDate,
		Goal:          r.Goal,
	}
}

// UpdateSprintRequest is the body of PUT /api/v1/jira/sprints/{id}.
// Only supplied fields are forwarded.
type UpdateSprintRequest struct {
	Name      *string `json:"name,omitempty"`
	State     *string `json:"state,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Goal      *string `json:"goal,omitempty"`
}

// Validate checks the request.
func (r *UpdateSprintRequest) Validate() error {
	if r.Name == nil && r.State == nil && r.StartDate == nil && r.EndDate == nil && r.Goal == nil {
		return fmt.Errorf("at least one field is required")
	}
	if r.State != nil && !jira.ValidSprintState(*r.State) {
		return fmt.Errorf("invalid sprint state %q", *r.State)
	}
	return nil
}

// Input converts the request into the jira package's input struct.
func (r *UpdateSprintRequest) Input() jira.UpdateSprintInput {
	return jira.UpdateSprintInput{
		Name:      r.Name,
		State:     r.State,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		Goal:      r.Goal,
	}
}

// MoveIssuesRequest is the body of POST /api/v1/jira/sprints/{id}/issues.
type MoveIssuesRequest struct {
	IssueKeys []string `json:"issue_keys"`
}

// Validate checks the request.
func (r *MoveIssuesRequest) Validate() error {
	if len(r.IssueKeys) == 0 {
		return fmt.Errorf("issue_keys must not be empty")
	}
	if len(r.IssueKeys) > MaxSprintMoveKeys {
		return fmt.Errorf("issue_keys must not exceed %d entries", MaxSprintMoveKeys)
	}
	for i, key := range r.IssueKeys {
		if key == "" {
			return fmt.Errorf("issue_keys[%d] is empty", i)
		}
	}
	return nil
}

func validateMaxResults(n int) error {
	if n < 0 || n > MaxSearchResults {
		return fmt.Errorf("max_results must be between 1 and %d", MaxSearchResults)
	}
	return nil
}
