package config

import "time"

// Default values applied when fields are unset.
const (
	DefaultListenAddress   = ":8080"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 15 * time.Second

	DefaultSignalWindow     = 5 * time.Minute
	DefaultMaxEntriesPerKey = 10000
	DefaultSweepSchedule    = "@every 1m"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultMetricsNamespace = "beacon"
)

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills unset fields with default values.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}

	if cfg.Signals.Window == 0 {
		cfg.Signals.Window = DefaultSignalWindow
	}
	if cfg.Signals.MaxEntriesPerKey == 0 {
		cfg.Signals.MaxEntriesPerKey = DefaultMaxEntriesPerKey
	}
	if cfg.Signals.SweepSchedule == "" {
		cfg.Signals.SweepSchedule = DefaultSweepSchedule
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}

	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
}
