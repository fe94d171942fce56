package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"mercator-hq/ganymede/pkg/cli"
	"mercator-hq/ganymede/pkg/config"
	"mercator-hq/ganymede/pkg/jira"
	"mercator-hq/ganymede/pkg/server"
	"mercator-hq/ganymede/pkg/telemetry/logging"
	"mercator-hq/ganymede/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Ganymede proxy server",
	Long: `Start the Ganymede proxy server with the specified configuration.

The server listens on the configured address and proxies JIRA operations
through the retry engine and field mapping cache.

Examples:
  # Start with default config
  ganymede run

  # Start with custom config
  ganymede run --config /etc/ganymede/config.yaml

  # Override listen address
  ganymede run --listen 0.0.0.0:8080

  # Validate config without starting the server
  ganymede run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError("failed to load config: %v", err)
	}
	cfg := config.GetConfig()

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := logging.Setup(&cfg.Telemetry.Logging); err != nil {
		return cli.NewConfigError("failed to configure logging: %v", err)
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	fmt.Printf("Mercator Ganymede v%s\n", Version)
	fmt.Printf("Loading configuration from: %s\n", cfgFile)
	fmt.Println("✓ Configuration loaded")

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	client, err := jira.NewClient(jiraConfig(cfg), jira.WithObserver(collector))
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer client.Close()
	fmt.Printf("✓ JIRA client ready (%s)\n", cfg.Jira.BaseURL)

	ctx, cancel := context.WithCancel(cli.SetupSignalHandler())
	defer cancel()

	// Background field-map refresher, if scheduled.
	if cfg.Jira.FieldRefreshSchedule != "" {
		refresher := jira.NewCacheRefresher(client, cfg.Jira.FieldRefreshSchedule)
		if err := refresher.Start(ctx); err != nil {
			slog.Warn("failed to start field cache refresher", "error", err)
		} else {
			defer refresher.Stop()
			fmt.Printf("✓ Field cache refresher scheduled (%s)\n", cfg.Jira.FieldRefreshSchedule)
		}
	}

	srv := server.NewServer(cfg, client, collector)

	// Config hot reload: server settings need a restart, but API keys and
	// log level take effect immediately.
	if watcher, err := config.NewWatcher(cfgFile); err != nil {
		slog.Warn("config watcher unavailable", "error", err)
	} else {
		go func() {
			err := watcher.Watch(ctx, func(updated *config.Config) {
				srv.Validator().Replace(&updated.Auth)
				if err := logging.Setup(&updated.Telemetry.Logging); err != nil {
					slog.Warn("reloaded log config invalid", "error", err)
				}
			})
			if err != nil {
				slog.Warn("config watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	fmt.Printf("✓ Health endpoint: http://%s/health\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Println("✓ Server stopped")
	return nil
}

// jiraConfig maps the service configuration onto the jira client config.
func jiraConfig(cfg *config.Config) jira.Config {
	return jira.Config{
		BaseURL:       cfg.Jira.BaseURL,
		Email:         cfg.Jira.Email,
		APIToken:      cfg.Jira.APIToken,
		Timeout:       cfg.Jira.Timeout,
		MaxAttempts:   cfg.Jira.MaxAttempts,
		BackoffBase:   cfg.Jira.BackoffBase,
		FieldCacheTTL: cfg.Jira.FieldCacheTTL,
		Fields: jira.FieldNames{
			StoryPoints: cfg.Jira.Fields.StoryPoints,
			EpicLink:    cfg.Jira.Fields.EpicLink,
			EpicName:    cfg.Jira.Fields.EpicName,
		},
	}
}
