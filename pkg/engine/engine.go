package engine

import (
	"log/slog"
	"sort"
	"time"

	"signalhq/beacon/pkg/policy"
	"signalhq/beacon/pkg/signal"
)

// MetricsRecorder receives evaluation telemetry. Implementations must be
// safe for concurrent use. A nil recorder disables instrumentation.
type MetricsRecorder interface {
	// ObserveEvaluation records one completed evaluation and its duration.
	ObserveEvaluation(d time.Duration)

	// RuleMatched records a rule match during evaluation.
	RuleMatched(policyID, ruleID string)
}

// Engine computes effective configurations by evaluating the active policy
// against rolling signal aggregates. The stores are injected at construction;
// there is no ambient global state.
type Engine struct {
	signals  *signal.Store
	policies *policy.Store
	logger   *slog.Logger
	metrics  MetricsRecorder
}

// New creates a rule engine over the given stores.
func New(signals *signal.Store, policies *policy.Store, logger *slog.Logger, metrics MetricsRecorder) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		signals:  signals,
		policies: policies,
		logger:   logger,
		metrics:  metrics,
	}
}

// Ingest appends a signal to its buffer and evaluates the same key.
func (e *Engine) Ingest(sig signal.Signal) EffectiveConfig {
	e.signals.Append(sig)
	return e.Evaluate(sig.Service, sig.Environment)
}

// Evaluate computes the effective configuration for a key against the policy
// snapshot active at call time. It is synchronous, bounded, and never returns
// an error: malformed rules degrade to non-matches.
//
// With no intervening ingest, repeated calls return identical output.
func (e *Engine) Evaluate(service, environment string) EffectiveConfig {
	start := time.Now()
	key := signal.NewKey(service, environment)

	e.signals.Prune(key, e.signals.Now())
	aggs := signal.Aggregate(e.signals.Snapshot(key))

	cfg := DefaultConfig(service, environment)

	// Snapshot: a swap during evaluation is not observed mid-walk.
	pol := e.policies.Active()

	rules := pol.EnabledRules()
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority < rules[j].Priority
	})

	for _, rule := range rules {
		if !rule.MatchesScope(service, environment) {
			continue
		}
		if !e.matchRule(pol.ID, rule, aggs) {
			continue
		}
		if e.metrics != nil {
			e.metrics.RuleMatched(pol.ID, rule.ID)
		}
		cfg.Apply(rule.Actions)
	}

	if e.metrics != nil {
		e.metrics.ObserveEvaluation(time.Since(start))
	}

	return cfg
}

// matchRule returns true iff every condition of the rule evaluates true.
// An empty condition list matches.
func (e *Engine) matchRule(policyID string, rule *policy.Rule, aggs signal.Aggregates) bool {
	for _, cond := range rule.Conditions {
		if !e.matchCondition(policyID, rule.ID, cond, aggs) {
			return false
		}
	}
	return true
}

// matchCondition evaluates a single condition against the aggregates.
// Unresolved kinds and unsupported operators fail closed with a warning.
func (e *Engine) matchCondition(policyID, ruleID string, cond policy.Condition, aggs signal.Aggregates) bool {
	if cond.IsAlways() {
		return true
	}

	var actual float64
	switch cond.Kind {
	case policy.KindErrorRate:
		actual = aggs.ErrorRate
	case policy.KindMetric:
		actual, _ = aggs.Get(cond.Key)
	default:
		// feature_flag, time, and unknown kinds have no evaluation path.
		e.logger.Warn("condition kind not evaluable, treating as not satisfied",
			"policy_id", policyID,
			"rule_id", ruleID,
			"kind", cond.Kind,
		)
		return false
	}

	matched, supported := compare(cond.Op, actual, cond.Threshold())
	if !supported {
		e.logger.Warn("operator not supported for numeric conditions, treating as not satisfied",
			"policy_id", policyID,
			"rule_id", ruleID,
			"op", cond.Op,
		)
		return false
	}
	return matched
}
