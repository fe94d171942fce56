package config

import "time"

// Config is the root configuration structure for Ganymede. It contains all
// configuration sections for the HTTP service, the upstream JIRA client,
// authentication and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts and CORS.
	Server ServerConfig `yaml:"server"`

	// Jira contains the upstream JIRA connection and client tuning.
	Jira JiraConfig `yaml:"jira"`

	// Auth contains API key authentication for the service's own surface.
	Auth AuthConfig `yaml:"auth"`

	// Telemetry contains logging and metrics configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response
	// writes. It also bounds whole-request handling via the timeout
	// middleware.
	// Default: 60s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes limits request header parsing.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`
}

// CORSConfig contains CORS configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// AllowedOrigins is the list of allowed origins. ["*"] allows all.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is the list of allowed HTTP methods.
	// Default: ["GET", "POST", "PUT", "DELETE", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is the list of allowed request headers.
	// Default: ["Authorization", "Content-Type", "X-Request-ID", "X-API-Key"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the preflight cache duration in seconds.
	// Default: 3600
	MaxAge int `yaml:"max_age"`
}

// JiraConfig contains the upstream JIRA connection settings and client
// tuning knobs.
type JiraConfig struct {
	// BaseURL is the JIRA instance base URL,
	// e.g. "https://acme.atlassian.net".
	BaseURL string `yaml:"base_url"`

	// Email is the Atlassian account email for basic auth. Typically
	// provided via GANYMEDE_JIRA_EMAIL.
	Email string `yaml:"email"`

	// APIToken is the Atlassian API token. Typically provided via
	// GANYMEDE_JIRA_API_TOKEN.
	APIToken string `yaml:"api_token"`

	// Timeout bounds each individual upstream attempt.
	// Default: 15s
	Timeout time.Duration `yaml:"timeout"`

	// MaxAttempts is the total attempt budget per operation.
	// Default: 3
	MaxAttempts int `yaml:"max_attempts"`

	// BackoffBase is the base delay for exponential retry backoff.
	// Default: 500ms
	BackoffBase time.Duration `yaml:"backoff_base"`

	// FieldCacheTTL is how long a fetched custom-field mapping stays
	// valid.
	// Default: 5m
	FieldCacheTTL time.Duration `yaml:"field_cache_ttl"`

	// FieldRefreshSchedule is an optional cron expression for background
	// field-map refreshes (e.g. "*/5 * * * *"). Empty disables the
	// background refresher; lazy refresh on access always applies.
	FieldRefreshSchedule string `yaml:"field_refresh_schedule"`

	// Fields overrides the display names of the custom fields resolved at
	// runtime.
	Fields FieldNamesConfig `yaml:"fields"`
}

// FieldNamesConfig contains the per-instance custom field display names.
type FieldNamesConfig struct {
	// StoryPoints is the story points field display name.
	// Default: "Story points"
	StoryPoints string `yaml:"story_points"`

	// EpicLink is the epic link field display name.
	// Default: "Epic Link"
	EpicLink string `yaml:"epic_link"`

	// EpicName is the epic name field display name.
	// Default: "Epic Name"
	EpicName string `yaml:"epic_name"`
}

// AuthConfig contains API key authentication settings for the service's own
// HTTP surface.
type AuthConfig struct {
	// Enabled controls whether API key authentication is enforced on
	// /api/ routes.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Keys is the set of accepted API keys.
	Keys []APIKeyConfig `yaml:"keys"`
}

// APIKeyConfig describes one accepted API key.
type APIKeyConfig struct {
	// Key is the secret key value. Typically provided via environment.
	Key string `yaml:"key"`

	// Name identifies the key owner in logs.
	Name string `yaml:"name"`

	// Enabled allows disabling a key without removing it.
	// Default: true
	Enabled bool `yaml:"enabled"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains structured logging settings.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics settings.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn" or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace and Subsystem prefix every metric name.
	// Defaults: "mercator", "ganymede"
	Namespace string `yaml:"namespace"`
	Subsystem string `yaml:"subsystem"`

	// RequestDurationBuckets are the histogram buckets for request
	// durations, in seconds.
	RequestDurationBuckets []float64 `yaml:"request_duration_buckets"`
}
