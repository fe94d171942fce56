package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"mercator-hq/ganymede/pkg/proxy"
	"mercator-hq/ganymede/pkg/proxy/types"
)

// validatable is implemented by all request DTOs.
type validatable interface {
	Validate() error
}

// decodeBody decodes and validates a JSON request body. On failure it writes
// a validation error response and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, v validatable) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			proxy.WriteValidationError(w, r, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		proxy.WriteValidationError(w, r, "invalid JSON body: "+err.Error())
		return false
	}
	if err := v.Validate(); err != nil {
		proxy.WriteValidationError(w, r, err.Error())
		return false
	}
	return true
}

// pathInt parses an integer path segment such as a board or sprint ID.
func pathInt(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

// queryMaxResults parses the max_results query parameter. Absent means 0,
// letting the client default apply.
func queryMaxResults(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("max_results")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > types.MaxSearchResults {
		return 0, fmt.Errorf("max_results must be between 1 and %d", types.MaxSearchResults)
	}
	return n, nil
}

// queryFields parses the comma-separated fields query parameter.
func queryFields(r *http.Request) []string {
	raw := r.URL.Query().Get("fields")
	if raw == "" {
		return nil
	}
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
