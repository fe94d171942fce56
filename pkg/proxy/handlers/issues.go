package handlers

import (
	"net/http"
	"strings"

	"mercator-hq/ganymede/pkg/jira"
	"mercator-hq/ganymede/pkg/proxy"
	"mercator-hq/ganymede/pkg/proxy/types"
)

// IssueHandler serves issue creation, retrieval and the per-issue operations
// (epic linking, transitions, comments, estimates).
type IssueHandler struct {
	client *jira.Client
}

// NewIssueHandler creates an issue handler.
func NewIssueHandler(client *jira.Client) *IssueHandler {
	return &IssueHandler{client: client}
}

// Create handles POST /api/v1/jira/issues.
func (h *IssueHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.CreateIssueRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.client.CreateIssue(r.Context(), jira.CreateIssueInput{
		ProjectKey:  req.ProjectKey,
		Summary:     req.Summary,
		Description: req.Description,
		IssueType:   req.IssueType,
	})
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusCreated, created)
}

// Get handles GET /api/v1/jira/issues/{key}.
func (h *IssueHandler) Get(w http.ResponseWriter, r *http.Request) {
	body, err := h.client.GetIssue(r.Context(), r.PathValue("key"), queryFields(r))
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteRaw(w, http.StatusOK, body)
}

// CreateEpic handles POST /api/v1/jira/epics.
func (h *IssueHandler) CreateEpic(w http.ResponseWriter, r *http.Request) {
	var req types.CreateEpicRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.client.CreateEpic(r.Context(), jira.CreateEpicInput{
		ProjectKey:  req.ProjectKey,
		EpicName:    req.EpicName,
		Summary:     req.Summary,
		Description: req.Description,
	})
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusCreated, created)
}

// CreateStory handles POST /api/v1/jira/stories.
func (h *IssueHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req types.CreateStoryRequest
	if !decodeBody(w, r, &req) {
		return
	}

	created, err := h.client.CreateStory(r.Context(), jira.CreateStoryInput{
		ProjectKey:    req.ProjectKey,
		Summary:       req.Summary,
		Description:   req.Description,
		ParentEpicKey: req.ParentEpicKey,
		StoryPoints:   req.StoryPoints,
	})
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusCreated, created)
}

// LinkEpic handles POST /api/v1/jira/issues/{key}/epic.
func (h *IssueHandler) LinkEpic(w http.ResponseWriter, r *http.Request) {
	var req types.EpicLinkRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.client.LinkIssueToEpic(r.Context(), req.EpicKey, r.PathValue("key")); err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListTransitions handles GET /api/v1/jira/issues/{key}/transitions.
func (h *IssueHandler) ListTransitions(w http.ResponseWriter, r *http.Request) {
	transitions, err := h.client.GetTransitions(r.Context(), r.PathValue("key"))
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteJSON(w, http.StatusOK, map[string][]jira.Transition{"transitions": transitions})
}

// ApplyTransition handles POST /api/v1/jira/issues/{key}/transitions. A
// transition may be named by ID or by display name; names are resolved
// against the issue's legal transitions.
func (h *IssueHandler) ApplyTransition(w http.ResponseWriter, r *http.Request) {
	var req types.TransitionRequest
	if !decodeBody(w, r, &req) {
		return
	}

	issueKey := r.PathValue("key")
	transitionID := req.TransitionID
	if transitionID == "" {
		id, err := h.resolveTransitionName(r, issueKey, req.TransitionName)
		if err != nil {
			proxy.WriteError(w, r, err)
			return
		}
		if id == "" {
			proxy.WriteValidationError(w, r, "invalid transition name: "+req.TransitionName)
			return
		}
		transitionID = id
	}

	if err := h.client.TransitionIssue(r.Context(), issueKey, transitionID); err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// resolveTransitionName scans the issue's legal transitions for a
// case-insensitive name match. Returns "" when no transition matches.
func (h *IssueHandler) resolveTransitionName(r *http.Request, issueKey, name string) (string, error) {
	transitions, err := h.client.GetTransitions(r.Context(), issueKey)
	if err != nil {
		return "", err
	}
	for _, t := range transitions {
		if strings.EqualFold(t.Name, name) {
			return t.ID, nil
		}
	}
	return "", nil
}

// Comment handles POST /api/v1/jira/issues/{key}/comment.
func (h *IssueHandler) Comment(w http.ResponseWriter, r *http.Request) {
	var req types.CommentRequest
	if !decodeBody(w, r, &req) {
		return
	}

	body, err := h.client.AddComment(r.Context(), r.PathValue("key"), req.Body)
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteRaw(w, http.StatusCreated, body)
}

// Estimate handles POST /api/v1/jira/issues/{key}/estimate.
func (h *IssueHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	var req types.EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.client.EstimateStoryPoints(r.Context(), r.PathValue("key"), *req.StoryPoints); err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
