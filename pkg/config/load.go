package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path. It
// applies default values, validates the configuration, and returns any
// errors. Environment variables are not consulted; use
// LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Variables follow the naming
// convention GANYMEDE_SECTION_FIELD (e.g. GANYMEDE_JIRA_API_TOKEN) and
// always take precedence over file-based configuration.
//
// The loading sequence is:
//  1. Load YAML from file (applies defaults)
//  2. Apply environment variable overrides
//  3. Re-validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("GANYMEDE_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("GANYMEDE_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("GANYMEDE_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}

	// JIRA overrides
	if val := os.Getenv("GANYMEDE_JIRA_BASE_URL"); val != "" {
		cfg.Jira.BaseURL = val
	}
	if val := os.Getenv("GANYMEDE_JIRA_EMAIL"); val != "" {
		cfg.Jira.Email = val
	}
	if val := os.Getenv("GANYMEDE_JIRA_API_TOKEN"); val != "" {
		cfg.Jira.APIToken = val
	}
	if val := os.Getenv("GANYMEDE_JIRA_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Jira.Timeout = d
		}
	}
	if val := os.Getenv("GANYMEDE_JIRA_MAX_ATTEMPTS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Jira.MaxAttempts = i
		}
	}
	if val := os.Getenv("GANYMEDE_JIRA_BACKOFF_BASE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Jira.BackoffBase = d
		}
	}
	if val := os.Getenv("GANYMEDE_JIRA_FIELD_CACHE_TTL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Jira.FieldCacheTTL = d
		}
	}

	// Auth overrides: a single key via environment, for simple deployments.
	if val := os.Getenv("GANYMEDE_AUTH_API_KEY"); val != "" {
		cfg.Auth.Enabled = true
		cfg.Auth.Keys = append(cfg.Auth.Keys, APIKeyConfig{
			Key:     val,
			Name:    "env",
			Enabled: true,
		})
	}

	// Telemetry overrides
	if val := os.Getenv("GANYMEDE_LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("GANYMEDE_LOG_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("GANYMEDE_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
