// Package jira implements the resilient JIRA API client at the heart of
// Ganymede.
//
// The package is organized in four layers, leaves first:
//
//   - Transport: a connection-pooled HTTP client that performs exactly one
//     network attempt per call and returns the upstream status and body
//     verbatim. It never retries and never interprets status codes.
//
//   - Retry engine: Client.do wraps every outbound request, classifying each
//     outcome as retry-now, fail-now, or succeed. Network faults, 429 and 5xx
//     responses are retried with exponential backoff (Retry-After is honored
//     for 429); all other 4xx responses fail immediately with a classified
//     error.
//
//   - Field mapping cache: JIRA identifies custom fields by opaque IDs
//     (e.g. customfield_10016) but configures them with human display names.
//     The cache resolves the configured display names for Story Points,
//     Epic Link and Epic Name to their IDs via GET /rest/api/3/field,
//     memoized with a TTL.
//
//   - Domain operations: issue search/create/transition/comment/estimate
//     against /rest/api/3 and board/sprint operations against
//     /rest/agile/1.0. Each builds a request descriptor, resolves custom
//     field IDs when needed, invokes the retry engine and shapes the result.
//
// All failures surface as *Error values carrying a Kind discriminant
// (validation, auth, not_found, rate_limited, server, network, config) and
// the raw upstream response body when available. Callers classify with
// errors.As and map kinds to HTTP statuses at the service boundary.
package jira
