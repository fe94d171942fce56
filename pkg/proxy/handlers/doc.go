// Package handlers implements the HTTP handlers of the Ganymede service
// surface. Handlers validate requests at this boundary, delegate to the jira
// client, and pass upstream bodies through unmodified wherever the surface is
// a thin proxy over JIRA.
package handlers
