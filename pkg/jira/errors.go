package jira

import (
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed JIRA interaction. Every non-success path in
// the client produces exactly one kind; the proxy boundary maps kinds to
// stable HTTP statuses.
type ErrorKind string

const (
	// KindValidation indicates malformed input or a 400-class rejection
	// from JIRA. Never retried.
	KindValidation ErrorKind = "validation"

	// KindAuth indicates JIRA rejected the credentials (401 or 403).
	// Never retried.
	KindAuth ErrorKind = "auth"

	// KindNotFound indicates the addressed resource does not exist (404).
	// Never retried.
	KindNotFound ErrorKind = "not_found"

	// KindRateLimited indicates JIRA throttled the request (429). Retried
	// with Retry-After honoring, then terminal.
	KindRateLimited ErrorKind = "rate_limited"

	// KindServer indicates a 5xx response from JIRA. Retried with
	// exponential backoff, then terminal.
	KindServer ErrorKind = "server"

	// KindNetwork indicates a connection-level fault (timeout, DNS, TLS,
	// reset). Retried, then terminal.
	KindNetwork ErrorKind = "network"

	// KindConfig indicates missing credentials or a missing custom-field
	// mapping. Fails fast, no retry.
	KindConfig ErrorKind = "config"
)

// Error is the single error type produced by the client. It carries the
// classification kind, a human-readable message, the upstream HTTP status
// (0 when not applicable) and the raw response body when one was available.
type Error struct {
	// Kind is the error classification.
	Kind ErrorKind

	// Message is a human-readable description.
	Message string

	// StatusCode is the upstream HTTP status code, or 0 for network and
	// config failures.
	StatusCode int

	// Details is the raw upstream response body, if any.
	Details string

	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("jira %s error (status %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("jira %s error: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// classifyStatus maps a non-2xx upstream status code to an error kind.
// Status codes outside the 4xx range classify as server errors; 4xx codes
// other than the well-known ones normalize to validation.
func classifyStatus(status int) ErrorKind {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return KindAuth
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusTooManyRequests:
		return KindRateLimited
	}
	if status >= 500 {
		return KindServer
	}
	return KindValidation
}

// statusError builds an *Error for a non-2xx upstream response.
func statusError(status int, body []byte) *Error {
	return &Error{
		Kind:       classifyStatus(status),
		Message:    fmt.Sprintf("JIRA returned status %d", status),
		StatusCode: status,
		Details:    string(body),
	}
}

// networkError wraps a connection-level failure.
func networkError(err error) *Error {
	return &Error{
		Kind:    KindNetwork,
		Message: "JIRA request failed",
		Cause:   err,
	}
}

// configError reports missing configuration, such as an absent custom-field
// mapping or incomplete credentials.
func configError(format string, args ...any) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: fmt.Sprintf(format, args...),
	}
}
