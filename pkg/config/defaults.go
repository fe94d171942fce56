package config

import "time"

// ApplyDefaults fills zero values in the configuration with sensible
// defaults. It is called by LoadConfig after parsing and before validation.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = "127.0.0.1:8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 60 * time.Second
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = 120 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20 // 1MB
	}

	// CORS defaults
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.Enabled = true
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID", "X-API-Key"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = 3600
	}

	// JIRA client defaults
	if cfg.Jira.Timeout == 0 {
		cfg.Jira.Timeout = 15 * time.Second
	}
	if cfg.Jira.MaxAttempts == 0 {
		cfg.Jira.MaxAttempts = 3
	}
	if cfg.Jira.BackoffBase == 0 {
		cfg.Jira.BackoffBase = 500 * time.Millisecond
	}
	if cfg.Jira.FieldCacheTTL == 0 {
		cfg.Jira.FieldCacheTTL = 5 * time.Minute
	}
	if cfg.Jira.Fields.StoryPoints == "" {
		cfg.Jira.Fields.StoryPoints = "Story points"
	}
	if cfg.Jira.Fields.EpicLink == "" {
		cfg.Jira.Fields.EpicLink = "Epic Link"
	}
	if cfg.Jira.Fields.EpicName == "" {
		cfg.Jira.Fields.EpicName = "Epic Name"
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "json"
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Enabled = true
		cfg.Telemetry.Metrics.Path = "/metrics"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = "mercator"
	}
	if cfg.Telemetry.Metrics.Subsystem == "" {
		cfg.Telemetry.Metrics.Subsystem = "ganymede"
	}
	if len(cfg.Telemetry.Metrics.RequestDurationBuckets) == 0 {
		cfg.Telemetry.Metrics.RequestDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0}
	}
}
