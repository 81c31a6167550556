package config

import "time"

// Config is the root configuration for the Beacon control plane.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Signals SignalsConfig `yaml:"signals"`
	Policy  PolicyConfig  `yaml:"policy"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// ListenAddress is the address the server binds to (e.g. ":8080").
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request.
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration for writing a response.
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// SignalsConfig contains signal store settings.
type SignalsConfig struct {
	// Window is the rolling window over which signals are retained.
	Window time.Duration `yaml:"window"`

	// MaxEntriesPerKey caps each per-key buffer; oldest entries drop first.
	MaxEntriesPerKey int `yaml:"max_entries_per_key"`

	// SweepSchedule is a cron expression for the background buffer sweep.
	// Empty disables the sweeper.
	SweepSchedule string `yaml:"sweep_schedule"`
}

// PolicyConfig contains policy source settings.
type PolicyConfig struct {
	// File is an optional path to a YAML policy file. When empty, the
	// built-in default policy is seeded at startup.
	File string `yaml:"file"`

	// Watch enables hot reload of the policy file via fsnotify.
	Watch bool `yaml:"watch"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the output format ("json", "text").
	Format string `yaml:"format"`
}

// MetricsConfig contains prometheus exposition settings.
type MetricsConfig struct {
	// Enabled controls whether /metrics is served.
	Enabled bool `yaml:"enabled"`

	// Namespace is the prometheus metric namespace prefix.
	Namespace string `yaml:"namespace"`
}
