// Package middleware provides the HTTP middleware chain for the Ganymede
// server: request IDs, structured request logging, panic recovery, CORS,
// per-request timeouts and body size limits.
//
// Middlewares compose outermost-first:
//
//	handler = RecoveryMiddleware(
//	    RequestIDMiddleware(
//	        LoggingMiddleware(mux)))
package middleware
