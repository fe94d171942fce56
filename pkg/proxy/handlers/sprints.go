package handlers

import (
	"net/http"

	"mercator-hq/ganymede/pkg/jira"
	"mercator-hq/ganymede/pkg/proxy"
	"mercator-hq/ganymede/pkg/proxy/types"
)

// AgileHandler serves board and sprint operations backed by the JIRA Agile
// API.
type AgileHandler struct {
	client *jira.Client
}

// NewAgileHandler creates an agile handler.
func NewAgileHandler(client *jira.Client) *AgileHandler {
	return &AgileHandler{client: client}
}

// ListBoards handles GET /api/v1/jira/boards.
func (h *AgileHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := h.client.ListBoards(r.Context())
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusOK, boards)
}

// ListSprints handles GET /api/v1/jira/boards/{id}/sprints. The optional
// state query parameter must be one of future, active or closed.
func (h *AgileHandler) ListSprints(w http.ResponseWriter, r *http.Request) {
	boardID, err := pathInt(r, "id")
	if err != nil {
		proxy.WriteValidationError(w, r, err.Error())
		return
	}

	state := r.URL.Query().Get("state")
	if state != "" && !jira.ValidSprintState(state) {
		proxy.WriteValidationError(w, r, "invalid sprint state: "+state)
		return
	}

	sprints, err := h.client.ListSprints(r.Context(), boardID, state)
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusOK, sprints)
}

// CreateSprint handles POST /api/v1/jira/sprints.
func (h *AgileHandler) CreateSprint(w http.ResponseWriter, r *http.Request) {
	var req types.CreateSprintRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sprint, err := h.client.CreateSprint(r.Context(), req.Input())
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusCreated, sprint)
}

// UpdateSprint handles PUT /api/v1/jira/sprints/{id}.
func (h *AgileHandler) UpdateSprint(w http.ResponseWriter, r *http.Request) {
	sprintID, err := pathInt(r, "id")
	if err != nil {
		proxy.WriteValidationError(w, r, err.Error())
		return
	}

	var req types.UpdateSprintRequest
	if !decodeBody(w, r, &req) {
		return
	}

	sprint, err := h.client.UpdateSprint(r.Context(), sprintID, req.Input())
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusOK, sprint)
}

// MoveIssues handles POST /api/v1/jira/sprints/{id}/issues.
func (h *AgileHandler) MoveIssues(w http.ResponseWriter, r *http.Request) {
	sprintID, err := pathInt(r, "id")
	if err != nil {
		proxy.WriteValidationError(w, r, err.Error())
		return
	}

	var req types.MoveIssuesRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.client.MoveIssuesToSprint(r.Context(), sprintID, req.IssueKeys); err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SprintIssues handles GET /api/v1/jira/sprints/{id}/issues. The optional
// jql query parameter filters the sprint's issues.
func (h *AgileHandler) SprintIssues(w http.ResponseWriter, r *http.Request) {
	sprintID, err := pathInt(r, "id")
	if err != nil {
		proxy.WriteValidationError(w, r, err.Error())
		return
	}

	body, err := h.client.GetSprintIssues(r.Context(), sprintID, r.URL.Query().Get("jql"))
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteRaw(w, http.StatusOK, body)
}
