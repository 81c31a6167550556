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
	Use:   "beacon",
	Short: "Beacon - adaptive observability control plane",
	Long: `Beacon is an adaptive-configuration control plane: agents push runtime
telemetry for a (service, environment) pair, and Beacon evaluates a
prioritized rule set against rolling aggregates to return the effective
runtime configuration the agent should adopt.

It provides:
  - Priority-ordered, conditional rule evaluation over rolling aggregates
  - Atomic, validated policy replacement with optional file hot reload
  - Per-key rolling signal buffers with bounded memory
  - Prometheus metrics and health probes`,
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
