package auth

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"mercator-hq/ganymede/pkg/proxy/types"
	"mercator-hq/ganymede/pkg/telemetry/logging"
)

// APIKeyHeader is the alternative header for supplying an API key.
const APIKeyHeader = "X-API-Key"

// Middleware enforces API key authentication. Keys are accepted either as
// "Authorization: Bearer <key>" or in the X-API-Key header. When enabled is
// false the middleware passes every request through.
func Middleware(validator *Validator, enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key, err := extractKey(r)
			if err != nil {
				slog.Warn("missing API key",
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				writeUnauthorized(w, r, "missing API key")
				return
			}

			info, err := validator.Validate(key)
			if err != nil {
				slog.Warn("rejected API key",
					"error", err,
					"remote_addr", r.RemoteAddr,
					"path", r.URL.Path,
				)
				writeUnauthorized(w, r, "invalid API key")
				return
			}

			slog.Debug("API key authenticated",
				"client", info.Name,
				"path", r.URL.Path,
			)

			ctx := logging.WithClientName(r.Context(), info.Name)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractKey pulls the API key from the request headers.
func extractKey(r *http.Request) (string, error) {
	if authz := r.Header.Get("Authorization"); authz != "" {
		if strings.HasPrefix(authz, "Bearer ") {
			return strings.TrimPrefix(authz, "Bearer "), nil
		}
	}
	if key := r.Header.Get(APIKeyHeader); key != "" {
		return key, nil
	}
	return "", fmt.Errorf("no API key found")
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, message string) {
	resp := types.NewErrorResponse(
		types.CodeAuth, message, "", logging.GetRequestID(r.Context()))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(resp)
}
