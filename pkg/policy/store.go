package policy

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// Store holds the single active, validated policy for the process.
//
// Replacement is atomic and copy-on-write: Set validates the candidate, then
// swaps the pointer under a write lock. Evaluations that already fetched a
// snapshot keep evaluating against it; no reader ever observes a half-updated
// policy. A rejected candidate leaves the active policy untouched.
type Store struct {
	mu       sync.RWMutex
	active   *Policy
	revision string
	logger   *slog.Logger
}

// NewStore creates a policy store seeded with the given policy.
// The initial policy must be valid; construction refuses invalid seeds.
func NewStore(initial *Policy, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := Validate(initial); err != nil {
		return nil, err
	}
	return &Store{
		active:   initial.Clone(),
		revision: uuid.NewString(),
		logger:   logger,
	}, nil
}

// Get returns a snapshot of the active policy. The snapshot is a deep copy;
// callers cannot mutate the active policy through it.
func (s *Store) Get() *Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active.Clone()
}

// Active returns the active policy without copying. The returned value must
// be treated as read-only; it is the engine's per-evaluation snapshot.
func (s *Store) Active() *Policy {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Revision returns an opaque identifier for the currently active policy,
// changing on every successful swap.
func (s *Store) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Set validates the candidate and atomically replaces the active policy.
// On validation failure it returns a *ValidationError and the previously
// active policy stays authoritative.
func (s *Store) Set(p *Policy) (*Policy, error) {
	lint := Lint(p)
	if lint.HasErrors() {
		s.logger.Warn("policy rejected",
			"policy_id", lint.PolicyID,
			"errors", len(lint.Errors),
		)
		return nil, lint
	}
	for _, w := range lint.Warnings {
		s.logger.Warn("policy warning", "policy_id", p.ID, "warning", w)
	}

	accepted := p.Clone()
	revision := uuid.NewString()

	s.mu.Lock()
	s.active = accepted
	s.revision = revision
	s.mu.Unlock()

	s.logger.Info("policy replaced",
		"policy_id", accepted.ID,
		"rule_count", len(accepted.Rules),
		"revision", revision,
	)

	return accepted.Clone(), nil
}
