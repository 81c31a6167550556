package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"signalhq/beacon/pkg/cli"
	"signalhq/beacon/pkg/config"
	"signalhq/beacon/pkg/engine"
	"signalhq/beacon/pkg/policy"
	"signalhq/beacon/pkg/server"
	"signalhq/beacon/pkg/signal"
	"signalhq/beacon/pkg/telemetry/logging"
	"signalhq/beacon/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	policyFile    string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Beacon control plane",
	Long: `Start the Beacon control plane with the specified configuration.

The server listens on the configured address, ingests agent signals into
rolling per-key buffers, and serves effective configurations computed by the
rule engine.

Examples:
  # Start with default config
  beacon run

  # Start with custom config
  beacon run --config /etc/beacon/config.yaml

  # Override listen address
  beacon run --listen 0.0.0.0:8080

  # Serve a policy file with hot reload
  beacon run --policy policies/adaptive.yaml

  # Validate config without starting the server
  beacon run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.policyFile, "policy", "", "override policy file path")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigOrDefault(cfgFile)
	if err != nil {
		return err
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Logging.Level = runFlags.logLevel
	}
	if runFlags.policyFile != "" {
		cfg.Policy.File = runFlags.policyFile
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, err := logging.Setup(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("configuration is valid")
		return nil
	}

	// Policy store: seed from file when configured, built-in default otherwise.
	seed := policy.Default()
	var source *policy.FileSource
	if cfg.Policy.File != "" {
		source = policy.NewFileSource(cfg.Policy.File, logger)
		loaded, err := source.Load()
		if err != nil {
			return err
		}
		seed = loaded
	}

	policies, err := policy.NewStore(seed, logger)
	if err != nil {
		return fmt.Errorf("invalid initial policy: %w", err)
	}

	signals := signal.NewStoreWithConfig(signal.StoreConfig{
		Window:           cfg.Signals.Window,
		MaxEntriesPerKey: cfg.Signals.MaxEntriesPerKey,
	})

	var collector *metrics.Collector
	if cfg.Metrics.Enabled {
		collector = metrics.NewCollector(cfg.Metrics.Namespace)
	}

	var recorder engine.MetricsRecorder
	if collector != nil {
		recorder = collector
	}
	eng := engine.New(signals, policies, logger, recorder)

	ctx := cli.SetupSignalHandler()

	sweeper := signal.NewSweeper(signals, cfg.Signals.SweepSchedule, logger)
	if err := sweeper.Start(ctx); err != nil {
		return err
	}

	if source != nil && cfg.Policy.Watch {
		go func() {
			if err := source.Watch(ctx, policies); err != nil {
				logger.Error("policy watcher stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(&cfg.Server, eng, policies, signals, collector)
	return srv.Start(ctx)
}
