package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/robfig/cron/v3"
)

// Validate checks the configuration for errors. It is called by LoadConfig
// after defaults are applied, and again after environment overrides.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := validateJira(&cfg.Jira); err != nil {
		return fmt.Errorf("jira: %w", err)
	}
	if err := validateAuth(&cfg.Auth); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := validateTelemetry(&cfg.Telemetry); err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	return nil
}

func validateServer(cfg *ServerConfig) error {
	if cfg.ListenAddress == "" {
		return fmt.Errorf("listen_address is required")
	}
	if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		return fmt.Errorf("invalid listen_address %q: %w", cfg.ListenAddress, err)
	}
	if cfg.ReadTimeout < 0 || cfg.WriteTimeout < 0 || cfg.IdleTimeout < 0 {
		return fmt.Errorf("timeouts must not be negative")
	}
	return nil
}

func validateJira(cfg *JiraConfig) error {
	// Credentials may legitimately be absent at validation time (provided
	// later via environment); only the shape of what is present is checked.
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil || u.Host == "" {
			return fmt.Errorf("invalid base_url %q", cfg.BaseURL)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("base_url scheme must be http or https, got %q", u.Scheme)
		}
	}
	if cfg.MaxAttempts < 1 {
		return fmt.Errorf("max_attempts must be at least 1, got %d", cfg.MaxAttempts)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if cfg.BackoffBase <= 0 {
		return fmt.Errorf("backoff_base must be positive")
	}
	if cfg.FieldCacheTTL <= 0 {
		return fmt.Errorf("field_cache_ttl must be positive")
	}
	if cfg.FieldRefreshSchedule != "" {
		if _, err := cron.ParseStandard(cfg.FieldRefreshSchedule); err != nil {
			return fmt.Errorf("invalid field_refresh_schedule %q: %w", cfg.FieldRefreshSchedule, err)
		}
	}
	return nil
}

func validateAuth(cfg *AuthConfig) error {
	if !cfg.Enabled {
		return nil
	}
	for i, key := range cfg.Keys {
		if key.Key == "" {
			return fmt.Errorf("keys[%d]: key must not be empty", i)
		}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) error {
	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid logging level %q (must be debug, info, warn or error)", cfg.Logging.Level)
	}
	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("invalid logging format %q (must be json or text)", cfg.Logging.Format)
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with /, got %q", cfg.Metrics.Path)
	}
	return nil
}
