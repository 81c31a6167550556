package policy

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// FileSource loads a policy from a YAML file on disk and can watch the file
// for changes, pushing valid replacements into a Store.
type FileSource struct {
	path   string
	logger *slog.Logger
}

// NewFileSource creates a file-based policy source for a single YAML file.
func NewFileSource(path string, logger *slog.Logger) *FileSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSource{path: path, logger: logger}
}

// Load reads and decodes the policy file. The decoded policy is not yet
// validated; callers push it through Store.Set or Validate.
func (s *FileSource) Load() (*Policy, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file %q: %w", s.path, err)
	}

	var p Policy
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse policy file %q: %w", s.path, err)
	}

	s.logger.Info("loaded policy from file",
		"path", s.path,
		"policy_id", p.ID,
		"rule_count", len(p.Rules),
	)

	return &p, nil
}

// Watch watches the policy file and swaps the store's active policy whenever
// the file is rewritten with a valid document. Invalid documents are logged
// and skipped; the active policy stays in place.
//
// Watch blocks until the context is cancelled. Run it in its own goroutine.
func (s *FileSource) Watch(ctx context.Context, store *Store) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors and config loops
	// commonly replace the file via rename, which drops a file-level watch.
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	s.logger.Info("watching policy file", "path", s.path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			s.reload(store)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("policy watcher error", "error", err)
		}
	}
}

// reload loads the file and attempts to swap it into the store.
func (s *FileSource) reload(store *Store) {
	p, err := s.Load()
	if err != nil {
		s.logger.Error("failed to reload policy file, keeping active policy",
			"path", s.path,
			"error", err,
		)
		return
	}

	if _, err := store.Set(p); err != nil {
		s.logger.Error("reloaded policy rejected, keeping active policy",
			"path", s.path,
			"error", err,
		)
	}
}
