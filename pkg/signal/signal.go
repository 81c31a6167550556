package signal

import (
	"fmt"
	"time"
)

// Signal is a single telemetry sample pushed by an agent. Signals are
// immutable once created: they age out of the store by pruning and are never
// edited or individually deleted.
type Signal struct {
	// Service is the reporting service name.
	Service string `json:"service"`

	// Environment is the deployment environment (e.g. "prod", "staging").
	Environment string `json:"environment"`

	// Timestamp is when the signal was ingested.
	Timestamp time.Time `json:"ts"`

	// LatencyMS is the observed request latency in milliseconds, if any.
	// Signals without a latency still count toward the error-rate denominator.
	LatencyMS *float64 `json:"latency_ms,omitempty"`

	// Error marks the sample as an error.
	Error bool `json:"error,omitempty"`

	// Attrs carries free-form agent attributes (host, region, ...).
	Attrs map[string]string `json:"attrs,omitempty"`
}

// Key identifies a signal buffer: one buffer exists per (service, environment).
type Key struct {
	Service     string
	Environment string
}

// NewKey builds the buffer key for a service/environment pair.
func NewKey(service, environment string) Key {
	return Key{Service: service, Environment: environment}
}

// String returns the key in "service/environment" form for logs and metrics.
func (k Key) String() string {
	return fmt.Sprintf("%s/%s", k.Service, k.Environment)
}
