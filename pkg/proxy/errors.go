package proxy

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"mercator-hq/ganymede/pkg/jira"
	"mercator-hq/ganymede/pkg/proxy/types"
	"mercator-hq/ganymede/pkg/telemetry/logging"
)

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// WriteRaw writes an upstream JIRA body through unmodified.
func WriteRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// WriteError maps a jira client error to an HTTP status and error body.
// Errors that do not carry a jira classification become opaque 500s.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := logging.GetRequestID(r.Context())

	var jerr *jira.Error
	if !errors.As(err, &jerr) {
		WriteJSON(w, http.StatusInternalServerError, types.NewErrorResponse(
			types.CodeInternal, "internal error", "", requestID))
		return
	}

	status, code := httpStatus(jerr)
	WriteJSON(w, status, types.NewErrorResponse(code, jerr.Message, jerr.Details, requestID))
}

// WriteValidationError writes a 400 for a request rejected at this boundary.
func WriteValidationError(w http.ResponseWriter, r *http.Request, message string) {
	WriteJSON(w, http.StatusBadRequest, types.NewErrorResponse(
		types.CodeValidation, message, "", logging.GetRequestID(r.Context())))
}

// httpStatus maps an error kind to the downstream status and error code.
// Auth errors preserve the upstream 401/403 distinction.
func httpStatus(err *jira.Error) (int, string) {
	switch err.Kind {
	case jira.KindValidation:
		return http.StatusBadRequest, types.CodeValidation
	case jira.KindAuth:
		if err.StatusCode == http.StatusForbidden {
			return http.StatusForbidden, types.CodeAuth
		}
		return http.StatusUnauthorized, types.CodeAuth
	case jira.KindNotFound:
		return http.StatusNotFound, types.CodeNotFound
	case jira.KindRateLimited:
		return http.StatusTooManyRequests, types.CodeRateLimited
	case jira.KindServer, jira.KindNetwork:
		return http.StatusBadGateway, types.CodeUpstream
	case jira.KindConfig:
		return http.StatusInternalServerError, types.CodeConfig
	default:
		return http.StatusInternalServerError, types.CodeInternal
	}
}
