package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/jira"
	"mercator-hq/ganymede/pkg/proxy/handlers"
	"mercator-hq/ganymede/pkg/proxy/middleware"
	"mercator-hq/ganymede/pkg/security/auth"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

// maxBodyBytes caps request bodies on the API surface. JIRA payloads here are
// small; anything bigger than this is malformed or abusive.
const maxBodyBytes = 1 << 20

// Server is the Ganymede HTTP server.
type Server struct {
	config       *config.Config
	client       *jira.Client
	validator    *auth.Validator
	collector    *metrics.Collector
	httpServer   *http.Server
	shutdownChan chan struct{}
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a server over the given jira client. The collector may
// be nil, disabling the /metrics endpoint and request metrics.
func NewServer(cfg *config.Config, client *jira.Client, collector *metrics.Collector) *Server {
	return &Server{
		config:       cfg,
		client:       client,
		validator:    auth.NewValidator(&cfg.Auth),
		collector:    collector,
		shutdownChan: make(chan struct{}),
	}
}

// Validator exposes the API key validator, so config reloads can rotate keys.
func (s *Server) Validator() *auth.Validator {
	return s.validator
}

// Start starts the HTTP server and blocks until shutdown.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.mu.Unlock()

	s.httpServer = &http.Server{
		Addr:           s.config.Server.ListenAddress,
		Handler:        s.setupRoutes(),
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		IdleTimeout:    s.config.Server.IdleTimeout,
		MaxHeaderBytes: s.config.Server.MaxHeaderBytes,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			"address", s.config.Server.ListenAddress,
			"auth_enabled", s.config.Auth.Enabled,
			"metrics_enabled", s.config.Telemetry.Metrics.Enabled,
		)

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		slog.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case sig := <-sigChan:
		slog.Info("received shutdown signal", "signal", sig.String())
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	case <-s.shutdownChan:
		slog.Info("shutdown requested")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		s.mu.Unlock()

		slog.Info("initiating graceful shutdown", "timeout", s.config.Server.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
		defer cancel()

		if s.httpServer != nil {
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				slog.Error("error during server shutdown", "error", err)
				shutdownErr = fmt.Errorf("server shutdown error: %w", err)
			}
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		slog.Info("server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Handler returns the configured HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.setupRoutes()
}

// setupRoutes configures HTTP routes and the middleware chain.
func (s *Server) setupRoutes() http.Handler {
	mux := http.NewServeMux()

	searchHandler := handlers.NewSearchHandler(s.client)
	issueHandler := handlers.NewIssueHandler(s.client)
	agileHandler := handlers.NewAgileHandler(s.client)

	mux.Handle("GET /health", handlers.NewHealthHandler())
	mux.Handle("GET /ready", handlers.NewReadyHandler(func() bool {
		return s.client != nil
	}))

	if s.collector != nil && s.config.Telemetry.Metrics.Enabled {
		mux.Handle("GET "+s.config.Telemetry.Metrics.Path, s.collector.Handler())
	}

	authn := auth.Middleware(s.validator, s.config.Auth.Enabled)

	// A nil *Collector must stay a nil interface for MetricsMiddleware.
	var recorder middleware.RequestRecorder
	if s.collector != nil {
		recorder = s.collector
	}

	api := func(pattern string, fn http.HandlerFunc) {
		var handler http.Handler = fn
		handler = authn(handler)
		handler = middleware.MetricsMiddleware(recorder, pattern)(handler)
		mux.Handle(pattern, handler)
	}

	api("GET /api/v1/jira/search", searchHandler.Search)
	api("POST /api/v1/jira/search/params", searchHandler.SearchParams)
	api("POST /api/v1/jira/issues", issueHandler.Create)
	api("GET /api/v1/jira/issues/{key}", issueHandler.Get)
	api("POST /api/v1/jira/epics", issueHandler.CreateEpic)
	api("POST /api/v1/jira/stories", issueHandler.CreateStory)
	api("POST /api/v1/jira/issues/{key}/epic", issueHandler.LinkEpic)
	api("GET /api/v1/jira/issues/{key}/transitions", issueHandler.ListTransitions)
	api("POST /api/v1/jira/issues/{key}/transitions", issueHandler.ApplyTransition)
	api("POST /api/v1/jira/issues/{key}/comment", issueHandler.Comment)
	api("POST /api/v1/jira/issues/{key}/estimate", issueHandler.Estimate)
	api("GET /api/v1/jira/boards", agileHandler.ListBoards)
	api("GET /api/v1/jira/boards/{id}/sprints", agileHandler.ListSprints)
	api("POST /api/v1/jira/sprints", agileHandler.CreateSprint)
	api("PUT /api/v1/jira/sprints/{id}", agileHandler.UpdateSprint)
	api("POST /api/v1/jira/sprints/{id}/issues", agileHandler.MoveIssues)
	api("GET /api/v1/jira/sprints/{id}/issues", agileHandler.SprintIssues)

	var handler http.Handler = mux
	handler = middleware.TimeoutMiddleware(s.config.Server.WriteTimeout)(handler)
	handler = middleware.MaxBodyMiddleware(maxBodyBytes)(handler)
	handler = middleware.CORSMiddleware(&s.config.Server.CORS)(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}
