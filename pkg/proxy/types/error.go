package types

// ErrorResponse is the envelope returned for all error conditions.
type ErrorResponse struct {
	// Error contains the error details.
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains detailed error information.
type ErrorDetail struct {
	// Code is a machine-readable error code.
	Code string `json:"code"`

	// Message is a human-readable error message.
	Message string `json:"message"`

	// Details carries additional context, typically the upstream JIRA
	// response body. Omitted when empty.
	Details string `json:"details,omitempty"`

	// RequestID correlates the error with server logs.
	RequestID string `json:"request_id,omitempty"`
}

// Error code constants.
const (
	// CodeValidation indicates a client-side error (400).
	CodeValidation = "validation_error"

	// CodeAuth indicates an authentication or permission failure (401/403).
	CodeAuth = "auth_error"

	// CodeNotFound indicates a resource was not found (404).
	CodeNotFound = "not_found"

	// CodeRateLimited indicates JIRA throttled the request (429).
	CodeRateLimited = "rate_limited"

	// CodeUpstream indicates a JIRA server or network failure (502).
	CodeUpstream = "upstream_error"

	// CodeConfig indicates a server-side configuration problem (500).
	CodeConfig = "config_error"

	// CodeInternal indicates an unexpected internal error (500).
	CodeInternal = "internal_error"
)

// NewErrorResponse creates a new error response with the given details.
func NewErrorResponse(code, message, details, requestID string) *ErrorResponse {
	return &ErrorResponse{
		Error: ErrorDetail{
			Code:      code,
			Message:   message,
			Details:   details,
			RequestID: requestID,
		},
	}
}
