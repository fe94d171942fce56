package handlers

import (
	"net/http"

	"mercator-hq/ganymede/pkg/jira"
	"mercator-hq/ganymede/pkg/proxy"
	"mercator-hq/ganymede/pkg/proxy/types"
)

// SearchHandler serves JQL searches, both raw and built from structured
// filter parameters.
type SearchHandler struct {
	client *jira.Client
}

// NewSearchHandler creates a search handler.
func NewSearchHandler(client *jira.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// Search handles GET /api/v1/jira/search. The jql, fields and max_results
// query parameters map directly onto the upstream search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	maxResults, err := queryMaxResults(r)
	if err != nil {
		proxy.WriteValidationError(w, r, err.Error())
		return
	}

	body, err := h.client.SearchIssues(r.Context(), r.URL.Query().Get("jql"), queryFields(r), maxResults)
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteRaw(w, http.StatusOK, body)
}

// SearchParams handles POST /api/v1/jira/search/params, building the JQL
// expression from structured filters.
func (h *SearchHandler) SearchParams(w http.ResponseWriter, r *http.Request) {
	var req types.SearchParamsRequest
	if !decodeBody(w, r, &req) {
		return
	}

	jql := jira.BuildJQL(req.Params())
	body, err := h.client.SearchIssues(r.Context(), jql, req.Fields, req.MaxResults)
	if err != nil {
		proxy.WriteError(w, r, err)
		return
	}
	proxy.WriteRaw(w, http.StatusOK, body)
}
