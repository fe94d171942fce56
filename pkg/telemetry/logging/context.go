package logging

import (
	"context"
)

// Context keys for common log fields.
type contextKey string

const (
	// RequestIDKey is the context key for request IDs.
	RequestIDKey contextKey = "request_id"

	// ClientNameKey is the context key for the authenticated client name.
	ClientNameKey contextKey = "client"
)

// WithRequestID adds a request ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID retrieves the request ID from the context.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

// WithClientName adds the authenticated client name to the context.
func WithClientName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, ClientNameKey, name)
}

// GetClientName retrieves the authenticated client name from the context.
func GetClientName(ctx context.Context) string {
	if name, ok := ctx.Value(ClientNameKey).(string); ok {
		return name
	}
	return ""
}

// ContextFields extracts common fields from a context for logging.
// Returns a slice of key-value pairs suitable for slog attrs.
func ContextFields(ctx context.Context) []any {
	var fields []any

	if requestID := GetRequestID(ctx); requestID != "" {
		fields = append(fields, "request_id", requestID)
	}

	if client := GetClientName(ctx); client != "" {
		fields = append(fields, "client", client)
	}

	return fields
}
