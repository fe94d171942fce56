package config

import (
	"strings"
	"testing"
)

// validConfig returns a configuration that passes validation.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Jira.BaseURL = "https://acme.atlassian.net"
	return cfg
}

func TestValidate_AcceptsDefaults(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "empty listen address",
			mutate:  func(c *Config) { c.Server.ListenAddress = "" },
			wantSub: "listen_address",
		},
		{
			name:    "listen address without port",
			mutate:  func(c *Config) { c.Server.ListenAddress = "localhost" },
			wantSub: "listen_address",
		},
		{
			name:    "bad base URL scheme",
			mutate:  func(c *Config) { c.Jira.BaseURL = "ftp://acme.atlassian.net" },
			wantSub: "scheme",
		},
		{
			name:    "zero max attempts",
			mutate:  func(c *Config) { c.Jira.MaxAttempts = 0 },
			wantSub: "max_attempts",
		},
		{
			name:    "negative backoff",
			mutate:  func(c *Config) { c.Jira.BackoffBase = -1 },
			wantSub: "backoff_base",
		},
		{
			name:    "bad refresh schedule",
			mutate:  func(c *Config) { c.Jira.FieldRefreshSchedule = "whenever" },
			wantSub: "field_refresh_schedule",
		},
		{
			name: "empty auth key",
			mutate: func(c *Config) {
				c.Auth.Enabled = true
				c.Auth.Keys = []APIKeyConfig{{Key: ""}}
			},
			wantSub: "key must not be empty",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Telemetry.Logging.Level = "verbose" },
			wantSub: "logging level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantSub: "logging format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("expected error containing %q, got %q", tt.wantSub, err)
			}
		})
	}
}

func TestValidate_DisabledAuthSkipsKeyChecks(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Enabled = false
	cfg.Auth.Keys = []APIKeyConfig{{Key: ""}}

	if err := Validate(cfg); err != nil {
		t.Fatalf("expected disabled auth to skip key validation, got %v", err)
	}
}
