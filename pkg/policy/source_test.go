package policy

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

const samplePolicyYAML = `
id: file-policy
description: loaded from disk
rules:
  - id: elevate
    priority: 5
    conditions:
      - kind: error_rate
        op: ">"
        value: 0.1
    actions:
      log_level: DEBUG
      trace_sample_rate: 0.5
  - id: baseline
    environment: prod
    conditions:
      - kind: always
        op: always
    actions:
      metric_period_s: 30
`

func writePolicyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestFileSource_Load(t *testing.T) {
	path := writePolicyFile(t, samplePolicyYAML)
	src := NewFileSource(path, slog.New(slog.NewTextHandler(io.Discard, nil)))

	p, err := src.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if p.ID != "file-policy" {
		t.Errorf("ID = %q, want %q", p.ID, "file-policy")
	}
	if len(p.Rules) != 2 {
		t.Fatalf("len(Rules) = %d, want 2", len(p.Rules))
	}

	elevate := p.GetRule("elevate")
	if elevate == nil {
		t.Fatal("GetRule(elevate) = nil")
	}
	if elevate.Priority != 5 {
		t.Errorf("elevate.Priority = %d, want 5", elevate.Priority)
	}
	if !elevate.Enabled {
		t.Error("elevate.Enabled = false, want default true")
	}

	baseline := p.GetRule("baseline")
	if baseline == nil {
		t.Fatal("GetRule(baseline) = nil")
	}
	if baseline.Priority != DefaultRulePriority {
		t.Errorf("baseline.Priority = %d, want default %d", baseline.Priority, DefaultRulePriority)
	}
	if baseline.Environment != "prod" {
		t.Errorf("baseline.Environment = %q, want %q", baseline.Environment, "prod")
	}

	if err := Validate(p); err != nil {
		t.Errorf("Validate() error on loaded policy: %v", err)
	}
}

func TestFileSource_LoadErrors(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("missing file", func(t *testing.T) {
		src := NewFileSource(filepath.Join(t.TempDir(), "absent.yaml"), logger)
		if _, err := src.Load(); err == nil {
			t.Error("Load() = nil error for missing file")
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writePolicyFile(t, "rules: [unclosed")
		src := NewFileSource(path, logger)
		if _, err := src.Load(); err == nil {
			t.Error("Load() = nil error for malformed yaml")
		}
	})
}

func TestFileSource_ReloadKeepsActiveOnBadFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewStore(Default(), logger)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}
	before := store.Revision()

	path := writePolicyFile(t, "id: broken\nrules:\n  - id: r1\n    actions:\n      trace_sample_rate: 2.0\n")
	src := NewFileSource(path, logger)
	src.reload(store)

	if store.Revision() != before {
		t.Error("invalid reload replaced the active policy")
	}
	if got := store.Get().ID; got != "default" {
		t.Errorf("active policy id = %q, want the seed to stay active", got)
	}
}

func TestFileSource_ReloadSwapsValidFile(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store, err := NewStore(Default(), logger)
	if err != nil {
		t.Fatalf("NewStore() error: %v", err)
	}

	path := writePolicyFile(t, samplePolicyYAML)
	src := NewFileSource(path, logger)
	src.reload(store)

	if got := store.Get().ID; got != "file-policy" {
		t.Errorf("active policy id = %q, want %q", got, "file-policy")
	}
}
