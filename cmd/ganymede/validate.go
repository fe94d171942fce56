package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load a configuration file, apply defaults and environment overrides,
and run the full validation pass without starting the server.

Examples:
  # Validate the default config
  ganymede validate

  # Validate a specific file
  ganymede validate --config /etc/ganymede/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("failed to load config: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("%v", err)
	}

	fmt.Printf("✓ Configuration valid: %s\n", cfgFile)
	fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  jira base url:  %s\n", cfg.Jira.BaseURL)
	fmt.Printf("  auth enabled:   %t (%d keys)\n", cfg.Auth.Enabled, len(cfg.Auth.Keys))
	fmt.Printf("  metrics:        %t\n", cfg.Telemetry.Metrics.Enabled)
	return nil
}
