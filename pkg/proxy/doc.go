// Package proxy translates between the Ganymede HTTP surface and the jira
// client package: JSON response helpers and the mapping from classified
// jira errors to HTTP statuses and error bodies.
package proxy
