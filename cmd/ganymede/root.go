package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "ganymede",
	Short: "Mercator Ganymede - resilient JIRA proxy service",
	Long: `Mercator Ganymede fronts a JIRA Cloud instance with a hardened REST
surface for automation and internal tooling.

It proxies issue, epic, story, board and sprint operations, providing:
  - Automatic retry with exponential backoff and Retry-After handling
  - Classified upstream errors mapped to clean HTTP statuses
  - Custom field discovery with an in-memory TTL cache
  - API key authentication and Prometheus metrics`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
