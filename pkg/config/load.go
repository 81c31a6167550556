package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file, applies defaults and
// BEACON_* environment variable overrides, and validates the result.
//
// The loading sequence is:
//  1. Parse YAML from file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate final configuration
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
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads configuration from path when the file exists,
// and falls back to defaults (plus env overrides) when it does not.
func LoadConfigOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
		return cfg, nil
	}
	return LoadConfig(path)
}

// applyEnvOverrides applies BEACON_SECTION_FIELD environment variables.
// Environment variables always take precedence over file-based configuration.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("BEACON_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("BEACON_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("BEACON_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("BEACON_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}

	if val := os.Getenv("BEACON_SIGNALS_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Signals.Window = d
		}
	}
	if val := os.Getenv("BEACON_SIGNALS_MAX_ENTRIES_PER_KEY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Signals.MaxEntriesPerKey = n
		}
	}
	if val := os.Getenv("BEACON_SIGNALS_SWEEP_SCHEDULE"); val != "" {
		cfg.Signals.SweepSchedule = val
	}

	if val := os.Getenv("BEACON_POLICY_FILE"); val != "" {
		cfg.Policy.File = val
	}
	if val := os.Getenv("BEACON_POLICY_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Policy.Watch = b
		}
	}

	if val := os.Getenv("BEACON_LOGGING_LEVEL"); val != "" {
		cfg.Logging.Level = val
	}
	if val := os.Getenv("BEACON_LOGGING_FORMAT"); val != "" {
		cfg.Logging.Format = val
	}

	if val := os.Getenv("BEACON_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Metrics.Enabled = b
		}
	}
	if val := os.Getenv("BEACON_METRICS_NAMESPACE"); val != "" {
		cfg.Metrics.Namespace = val
	}
}
