package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// RequestRecorder receives per-request metrics. Satisfied by the telemetry
// metrics collector.
type RequestRecorder interface {
	RecordRequest(route, method, status string, duration time.Duration)
	RequestStarted()
	RequestFinished()
}

// MetricsMiddleware records request count, duration and in-flight gauge for
// a route. The route label is the registration pattern, not the concrete URL,
// so issue keys and sprint IDs never explode metric cardinality.
func MetricsMiddleware(recorder RequestRecorder, route string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if recorder == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder.RequestStarted()
			defer recorder.RequestFinished()

			rw := newResponseWriter(w)
			next.ServeHTTP(rw, r)

			recorder.RecordRequest(route, r.Method, strconv.Itoa(rw.statusCode), time.Since(start))
		})
	}
}
