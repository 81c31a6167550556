package signal

import (
	"sync"
	"time"
)

const (
	// WindowMax is the rolling window length: signals older than this are
	// pruned and never contribute to aggregates.
	WindowMax = 5 * time.Minute

	// DefaultMaxEntriesPerKey is the hard per-buffer entry cap. The cap is
	// independent of the time-based prune: it bounds memory under bursty
	// ingest even when pruning triggers are infrequent. Oldest entries are
	// dropped first.
	DefaultMaxEntriesPerKey = 10000
)

// Store holds a rolling buffer of signals per (service, environment) key.
//
// Buffers are created lazily on first append and persist for the process
// lifetime. All operations are safe for concurrent use; a snapshot never
// observes a buffer mid-mutation.
type Store struct {
	mu      sync.RWMutex
	buffers map[Key]*buffer
	window  time.Duration
	maxPer  int
	nowFunc func() time.Time
}

// buffer is the per-key state. Entries are ordered by arrival.
type buffer struct {
	mu      sync.Mutex
	entries []Signal
}

// StoreConfig configures the signal store.
type StoreConfig struct {
	// Window is the rolling window length. Default: WindowMax (300s).
	Window time.Duration

	// MaxEntriesPerKey caps each buffer. Default: DefaultMaxEntriesPerKey.
	MaxEntriesPerKey int

	// NowFunc overrides the clock, for tests. Default: time.Now.
	NowFunc func() time.Time
}

// NewStore creates a signal store with default settings.
func NewStore() *Store {
	return NewStoreWithConfig(StoreConfig{})
}

// NewStoreWithConfig creates a signal store with custom configuration.
func NewStoreWithConfig(cfg StoreConfig) *Store {
	if cfg.Window <= 0 {
		cfg.Window = WindowMax
	}
	if cfg.MaxEntriesPerKey <= 0 {
		cfg.MaxEntriesPerKey = DefaultMaxEntriesPerKey
	}
	if cfg.NowFunc == nil {
		cfg.NowFunc = time.Now
	}
	return &Store{
		buffers: make(map[Key]*buffer),
		window:  cfg.Window,
		maxPer:  cfg.MaxEntriesPerKey,
		nowFunc: cfg.NowFunc,
	}
}

// Window returns the store's rolling window length.
func (s *Store) Window() time.Duration {
	return s.window
}

// Append adds a signal to the buffer for its (service, environment) key,
// creating the buffer on first use. When the buffer is at its entry cap the
// oldest entry is dropped first.
func (s *Store) Append(sig Signal) {
	key := NewKey(sig.Service, sig.Environment)
	buf := s.getOrCreate(key)

	buf.mu.Lock()
	defer buf.mu.Unlock()

	if len(buf.entries) >= s.maxPer {
		drop := len(buf.entries) - s.maxPer + 1
		buf.entries = append(buf.entries[:0], buf.entries[drop:]...)
	}
	buf.entries = append(buf.entries, sig)
}

// Prune removes, in place, every entry of the key's buffer older than the
// rolling window relative to now. Missing buffers are a no-op.
func (s *Store) Prune(key Key, now time.Time) {
	buf := s.lookup(key)
	if buf == nil {
		return
	}

	cutoff := now.Add(-s.window)

	buf.mu.Lock()
	defer buf.mu.Unlock()

	// Entries are ordered by arrival, so surviving entries form a suffix.
	keep := 0
	for keep < len(buf.entries) && buf.entries[keep].Timestamp.Before(cutoff) {
		keep++
	}
	if keep > 0 {
		buf.entries = append(buf.entries[:0], buf.entries[keep:]...)
	}
}

// Snapshot returns a copy of the key's current buffer for read-only
// aggregation. Returns nil for keys that have never seen a signal.
func (s *Store) Snapshot(key Key) []Signal {
	buf := s.lookup(key)
	if buf == nil {
		return nil
	}

	buf.mu.Lock()
	defer buf.mu.Unlock()

	out := make([]Signal, len(buf.entries))
	copy(out, buf.entries)
	return out
}

// Len returns the current entry count for a key.
func (s *Store) Len(key Key) int {
	buf := s.lookup(key)
	if buf == nil {
		return 0
	}
	buf.mu.Lock()
	defer buf.mu.Unlock()
	return len(buf.entries)
}

// Keys returns all keys that currently have a buffer.
func (s *Store) Keys() []Key {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]Key, 0, len(s.buffers))
	for k := range s.buffers {
		keys = append(keys, k)
	}
	return keys
}

// PruneAll prunes every buffer against now. Used by the background sweeper
// to keep idle keys from holding a full window of stale entries.
func (s *Store) PruneAll(now time.Time) {
	for _, key := range s.Keys() {
		s.Prune(key, now)
	}
}

// Now returns the store's current time, honoring a test clock override.
func (s *Store) Now() time.Time {
	return s.nowFunc()
}

func (s *Store) lookup(key Key) *buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.buffers[key]
}

func (s *Store) getOrCreate(key Key) *buffer {
	s.mu.RLock()
	buf := s.buffers[key]
	s.mu.RUnlock()
	if buf != nil {
		return buf
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if buf = s.buffers[key]; buf == nil {
		buf = &buffer{}
		s.buffers[key] = buf
	}
	return buf
}
