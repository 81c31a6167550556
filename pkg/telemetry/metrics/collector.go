package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector bundles the control plane's prometheus metrics.
type Collector struct {
	registry *prometheus.Registry

	signalsIngested *prometheus.CounterVec
	evaluations     prometheus.Counter
	evalDuration    prometheus.Histogram
	ruleMatches     *prometheus.CounterVec
	policyReloads   *prometheus.CounterVec
	bufferEntries   *prometheus.GaugeVec
}

// NewCollector creates and registers the control plane metrics on a fresh
// registry.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "beacon"
	}

	c := &Collector{
		registry: prometheus.NewRegistry(),

		signalsIngested: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "signals_ingested_total",
				Help:      "Total number of signals accepted for aggregation",
			},
			[]string{"service", "environment"},
		),

		evaluations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "evaluations_total",
				Help:      "Total number of rule-engine evaluations completed",
			},
		),

		evalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "evaluation_duration_seconds",
				Help:      "Duration of rule-engine evaluations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 4, 10), // 1us to ~262ms
			},
		),

		ruleMatches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rule_matches_total",
				Help:      "Total number of rule matches during evaluation",
			},
			[]string{"policy_id", "rule_id"},
		),

		policyReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "policy_reloads_total",
				Help:      "Total number of policy replacements by outcome",
			},
			[]string{"outcome"},
		),

		bufferEntries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "signal_buffer_entries",
				Help:      "Current number of buffered signal entries per key",
			},
			[]string{"service", "environment"},
		),
	}

	c.registry.MustRegister(
		c.signalsIngested,
		c.evaluations,
		c.evalDuration,
		c.ruleMatches,
		c.policyReloads,
		c.bufferEntries,
	)

	return c
}

// Registry returns the underlying prometheus registry for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// SignalIngested records one accepted signal.
func (c *Collector) SignalIngested(service, environment string) {
	c.signalsIngested.WithLabelValues(service, environment).Inc()
}

// ObserveEvaluation records one completed evaluation and its duration.
func (c *Collector) ObserveEvaluation(d time.Duration) {
	c.evaluations.Inc()
	c.evalDuration.Observe(d.Seconds())
}

// RuleMatched records a rule match during evaluation.
func (c *Collector) RuleMatched(policyID, ruleID string) {
	c.ruleMatches.WithLabelValues(policyID, ruleID).Inc()
}

// PolicyReload records a policy replacement attempt by outcome
// ("accepted" or "rejected").
func (c *Collector) PolicyReload(outcome string) {
	c.policyReloads.WithLabelValues(outcome).Inc()
}

// SetBufferEntries updates the buffered-entry gauge for a key.
func (c *Collector) SetBufferEntries(service, environment string, n int) {
	c.bufferEntries.WithLabelValues(service, environment).Set(float64(n))
}
