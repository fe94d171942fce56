package handlers

import (
	"net/http"

	"mercator-hq/ganymede/pkg/proxy"
)

// HealthHandler serves the liveness endpoint. It reports healthy whenever the
// process is up; upstream JIRA reachability is deliberately not part of
// liveness.
type HealthHandler struct{}

// NewHealthHandler creates a health check handler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	proxy.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ReadyHandler serves the readiness endpoint. Ready means configuration is
// loaded and the JIRA client is constructed; it does not probe JIRA, so a
// flapping upstream cannot knock the service out of rotation.
type ReadyHandler struct {
	ready func() bool
}

// NewReadyHandler creates a readiness handler backed by the given check.
func NewReadyHandler(ready func() bool) *ReadyHandler {
	return &ReadyHandler{ready: ready}
}

func (h *ReadyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.ready == nil || !h.ready() {
		proxy.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not ready"})
		return
	}
	proxy.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
