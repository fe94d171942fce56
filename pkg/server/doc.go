// Package server ties the Ganymede components together: it wires the HTTP
// routes over the jira client, chains the middleware, and manages the server
// lifecycle including graceful shutdown on SIGTERM/SIGINT.
//
// # Routes
//
//   - GET /health: liveness probe
//   - GET /ready: readiness probe
//   - GET /metrics: Prometheus exposition (when enabled)
//   - /api/v1/jira/...: the JIRA proxy surface, behind API key auth
//
// # Middleware Chain
//
// Requests pass through, outermost first: recovery, request ID, logging,
// CORS, body size limit, timeout. API routes additionally pass auth, and
// each route records request metrics under its registration pattern.
package server
