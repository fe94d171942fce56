// Package types defines the request and error body shapes of the Ganymede
// HTTP surface. Handlers decode these, validate them, and translate them
// into jira package calls; upstream JIRA payloads pass through untouched.
package types
