package health

import (
	"context"
	"sync"
	"time"
)

// CheckFunc is a component health check. It returns nil when healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	Status     string  `json:"status"`
	Message    string  `json:"message,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// Liveness is the liveness probe response. Its wire shape matches the
// healthcheck operation agents poll: {"ok": true, "ts": ...}.
type Liveness struct {
	OK bool      `json:"ok"`
	TS time.Time `json:"ts"`
}

// Readiness is the readiness probe response.
type Readiness struct {
	Status string                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
	TS     time.Time              `json:"ts"`
}

// Checker runs registered component health checks.
type Checker struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{checks: make(map[string]CheckFunc)}
}

// RegisterCheck registers a named component check. Re-registering a name
// replaces the previous check.
func (c *Checker) RegisterCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// CheckLiveness reports the process is alive.
func (c *Checker) CheckLiveness(ctx context.Context) Liveness {
	return Liveness{OK: true, TS: time.Now().UTC()}
}

// CheckReadiness runs every registered check and reports the aggregate.
// Status is "ready" when all checks pass, "not_ready" otherwise.
func (c *Checker) CheckReadiness(ctx context.Context) Readiness {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	out := Readiness{
		Status: "ready",
		Checks: make(map[string]CheckResult, len(checks)),
		TS:     time.Now().UTC(),
	}

	for name, fn := range checks {
		start := time.Now()
		err := fn(ctx)
		result := CheckResult{
			Status:     "ok",
			DurationMS: float64(time.Since(start).Microseconds()) / 1000,
		}
		if err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
			out.Status = "not_ready"
		}
		out.Checks[name] = result
	}

	return out
}
