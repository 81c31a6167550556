package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
	if cfg.Server.ShutdownTimeout != DefaultShutdownTimeout {
		t.Errorf("ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, DefaultShutdownTimeout)
	}
	if cfg.Signals.Window != DefaultSignalWindow {
		t.Errorf("Signals.Window = %v, want %v", cfg.Signals.Window, DefaultSignalWindow)
	}
	if cfg.Signals.MaxEntriesPerKey != DefaultMaxEntriesPerKey {
		t.Errorf("Signals.MaxEntriesPerKey = %d, want %d", cfg.Signals.MaxEntriesPerKey, DefaultMaxEntriesPerKey)
	}
	if cfg.Logging.Level != DefaultLogLevel || cfg.Logging.Format != DefaultLogFormat {
		t.Errorf("Logging = %+v, want level %q format %q", cfg.Logging, DefaultLogLevel, DefaultLogFormat)
	}
	if cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics.Namespace = %q, want %q", cfg.Metrics.Namespace, DefaultMetricsNamespace)
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("Validate() error on defaults: %v", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: ":9090"
  read_timeout: 5s
signals:
  window: 2m
  max_entries_per_key: 500
policy:
  file: /etc/beacon/policy.yaml
  watch: true
logging:
  level: debug
  format: text
metrics:
  enabled: true
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.ListenAddress != ":9090" {
		t.Errorf("ListenAddress = %q, want %q", cfg.Server.ListenAddress, ":9090")
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("ReadTimeout = %v, want 5s", cfg.Server.ReadTimeout)
	}
	// Unset fields fall back to defaults.
	if cfg.Server.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("WriteTimeout = %v, want default %v", cfg.Server.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Signals.Window != 2*time.Minute {
		t.Errorf("Signals.Window = %v, want 2m", cfg.Signals.Window)
	}
	if cfg.Signals.MaxEntriesPerKey != 500 {
		t.Errorf("Signals.MaxEntriesPerKey = %d, want 500", cfg.Signals.MaxEntriesPerKey)
	}
	if !cfg.Policy.Watch || cfg.Policy.File != "/etc/beacon/policy.yaml" {
		t.Errorf("Policy = %+v, want watch enabled with file set", cfg.Policy)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "text" {
		t.Errorf("Logging = %+v, want debug/text", cfg.Logging)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("Metrics = %+v, want enabled with default namespace", cfg.Metrics)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  listen_address: ":9090"
logging:
  level: warn
`)

	t.Setenv("BEACON_SERVER_LISTEN_ADDRESS", ":7070")
	t.Setenv("BEACON_LOGGING_LEVEL", "error")
	t.Setenv("BEACON_SIGNALS_WINDOW", "90s")
	t.Setenv("BEACON_METRICS_ENABLED", "true")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Server.ListenAddress != ":7070" {
		t.Errorf("ListenAddress = %q, want env override %q", cfg.Server.ListenAddress, ":7070")
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, want env override %q", cfg.Logging.Level, "error")
	}
	if cfg.Signals.Window != 90*time.Second {
		t.Errorf("Signals.Window = %v, want 90s", cfg.Signals.Window)
	}
	if !cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = false, want env override true")
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Error("LoadConfig() = nil error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "server: [not a map")
		if _, err := LoadConfig(path); err == nil {
			t.Error("LoadConfig() = nil error for malformed yaml")
		}
	})

	t.Run("invalid log level", func(t *testing.T) {
		path := writeConfigFile(t, "logging:\n  level: loud\n")
		_, err := LoadConfig(path)
		if err == nil {
			t.Fatal("LoadConfig() = nil error for invalid log level")
		}
		if !strings.Contains(err.Error(), "logging.level") {
			t.Errorf("error = %q, want mention of logging.level", err)
		}
	})
}

func TestLoadConfigOrDefault(t *testing.T) {
	cfg, err := LoadConfigOrDefault(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfigOrDefault() error: %v", err)
	}
	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("ListenAddress = %q, want default %q", cfg.Server.ListenAddress, DefaultListenAddress)
	}
}

func TestValidate_AccumulatesErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.ListenAddress = ""
	cfg.Signals.Window = 0
	cfg.Logging.Format = "xml"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("Validate() = nil error")
	}
	for _, want := range []string{"server.listen_address", "signals.window", "logging.format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}
