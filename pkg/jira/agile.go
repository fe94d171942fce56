package jira

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Sprint states accepted by ListSprints. Validation against this set happens
// at the service boundary.
const (
	SprintStateFuture = "future"
	SprintStateActive = "active"
	SprintStateClosed = "closed"
)

// ValidSprintState reports whether s is one of the states the Agile API
// accepts as a sprint filter.
func ValidSprintState(s string) bool {
	switch s {
	case SprintStateFuture, SprintStateActive, SprintStateClosed:
		return true
	}
	return false
}

// ListBoards lists all boards visible to the configured account.
func (c *Client) ListBoards(ctx context.Context) (*BoardPage, error) {
	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   agileRoot + "/board",
	})
	if err != nil {
		return nil, err
	}

	var page BoardPage
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// ListSprints lists the sprints of a board, optionally filtered by state
// (future, active or closed).
func (c *Client) ListSprints(ctx context.Context, boardID int, state string) (*SprintPage, error) {
	query := url.Values{}
	if state != "" {
		query.Set("state", state)
	}

	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/board/%d/sprint", agileRoot, boardID),
		Query:  query,
	})
	if err != nil {
		return nil, err
	}

	var page SprintPage
	if err := resp.Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

// CreateSprint creates a sprint on the given origin board.
func (c *Client) CreateSprint(ctx context.Context, in CreateSprintInput) (*Sprint, error) {
	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodPost,
		Path:   agileRoot + "/sprint",
		Body:   in,
	})
	if err != nil {
		return nil, err
	}

	var sprint Sprint
	if err := resp.Decode(&sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// UpdateSprint applies a partial update to a sprint; only the non-nil input
// fields are sent.
func (c *Client) UpdateSprint(ctx context.Context, sprintID int, in UpdateSprintInput) (*Sprint, error) {
	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodPut,
		Path:   fmt.Sprintf("%s/sprint/%d", agileRoot, sprintID),
		Body:   in,
	})
	if err != nil {
		return nil, err
	}

	var sprint Sprint
	if err := resp.Decode(&sprint); err != nil {
		return nil, err
	}
	return &sprint, nil
}

// MoveIssuesToSprint moves the given issues into a sprint. Batch size
// limits (1-100 keys) are enforced at the service boundary.
func (c *Client) MoveIssuesToSprint(ctx context.Context, sprintID int, issueKeys []string) error {
	_, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodPost,
		Path:   fmt.Sprintf("%s/sprint/%d/issue", agileRoot, sprintID),
		Body:   map[string]any{"issues": issueKeys},
	})
	return err
}

// GetSprintIssues lists the issues in a sprint, optionally filtered by an
// additional JQL expression. The upstream body is returned unmodified.
func (c *Client) GetSprintIssues(ctx context.Context, sprintID int, jql string) (json.RawMessage, error) {
	query := url.Values{}
	if jql != "" {
		query.Set("jql", jql)
	}

	resp, err := c.do(ctx, &RequestDescriptor{
		Method: http.MethodGet,
		Path:   fmt.Sprintf("%s/sprint/%d/issue", agileRoot, sprintID),
		Query:  query,
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}
