package middleware

import (
	"context"
	"net/http"
	"time"
)

// TimeoutMiddleware bounds request processing with context.WithTimeout. The
// jira client's retry loop watches the context, so a timed-out request stops
// retrying instead of burning its remaining attempt budget.
//
// The handler itself observes the cancellation and reports the resulting
// error; this middleware only arms the deadline.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// MaxBodyMiddleware rejects request bodies larger than maxBytes. Reads past
// the limit fail inside the handler's decode with an http.MaxBytesError.
func MaxBodyMiddleware(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
