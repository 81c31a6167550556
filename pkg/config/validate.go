package config

import (
	"fmt"
	"strings"
)

// validLogLevels are the accepted logging.level values.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats are the accepted logging.format values.
var validLogFormats = map[string]bool{
	"json": true,
	"text": true,
}

// Validate checks the configuration for invalid values. It accumulates all
// failures so operators see every problem at once.
func Validate(cfg *Config) error {
	var errs []string

	if cfg.Server.ListenAddress == "" {
		errs = append(errs, "server.listen_address is required")
	}
	if cfg.Server.ReadTimeout < 0 {
		errs = append(errs, "server.read_timeout must not be negative")
	}
	if cfg.Server.WriteTimeout < 0 {
		errs = append(errs, "server.write_timeout must not be negative")
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		errs = append(errs, "server.shutdown_timeout must be positive")
	}

	if cfg.Signals.Window <= 0 {
		errs = append(errs, "signals.window must be positive")
	}
	if cfg.Signals.MaxEntriesPerKey <= 0 {
		errs = append(errs, "signals.max_entries_per_key must be positive")
	}

	if !validLogLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("logging.level %q is not one of debug, info, warn, error", cfg.Logging.Level))
	}
	if !validLogFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("logging.format %q is not one of json, text", cfg.Logging.Format))
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, "metrics.namespace is required when metrics are enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}
