package signal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Sweeper prunes all signal buffers on a cron schedule.
//
// The hot path already prunes the touched key on every ingest and evaluation;
// the sweeper covers keys that stop receiving traffic, so an idle buffer does
// not hold a full window of stale entries for the rest of the process
// lifetime.
type Sweeper struct {
	store    *Store
	schedule string
	cron     *cron.Cron
	mu       sync.Mutex
	logger   *slog.Logger
	running  bool
}

// NewSweeper creates a sweeper for the given store.
//
// Common schedules:
//   - "@every 1m" - every minute
//   - "*/5 * * * *" - every five minutes
//
// An empty schedule disables the sweeper.
func NewSweeper(store *Store, schedule string, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		store:    store,
		schedule: schedule,
		cron:     cron.New(),
		logger:   logger.With("component", "signal.sweeper"),
	}
}

// Start begins scheduled sweeping. It returns immediately; sweeping runs on
// the cron's goroutine until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.schedule == "" {
		s.logger.Info("sweep schedule not configured, skipping sweeper")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("signal sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts scheduled sweeping. Safe to call more than once.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
	s.logger.Info("signal sweeper stopped")
}

// sweep runs one pruning pass across all buffers.
func (s *Sweeper) sweep() {
	keys := s.store.Keys()
	s.store.PruneAll(s.store.Now())
	s.logger.Debug("swept signal buffers", "key_count", len(keys))
}
