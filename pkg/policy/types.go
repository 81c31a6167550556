package policy

import (
	"encoding/json"
	"fmt"
)

// ConditionKind identifies what a condition inspects.
type ConditionKind string

const (
	// KindMetric compares a named aggregate (e.g. "latency_p95_ms") to a threshold.
	KindMetric ConditionKind = "metric"

	// KindErrorRate compares the buffer error rate to a threshold.
	KindErrorRate ConditionKind = "error_rate"

	// KindFeatureFlag is declared in the schema but has no evaluation path yet.
	// Conditions of this kind never match.
	KindFeatureFlag ConditionKind = "feature_flag"

	// KindTime is declared in the schema but has no evaluation path yet.
	// Conditions of this kind never match.
	KindTime ConditionKind = "time"

	// KindAlways matches unconditionally.
	KindAlways ConditionKind = "always"
)

// Operator represents a comparison operator in a condition.
type Operator string

const (
	OperatorGreaterThan  Operator = ">"
	OperatorGreaterEqual Operator = ">="
	OperatorLessThan     Operator = "<"
	OperatorLessEqual    Operator = "<="
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorIn           Operator = "in"
	OperatorContains     Operator = "contains"
	OperatorAlways       Operator = "always"
)

// LogLevel is an agent log verbosity level.
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// knownKinds is the set of condition kinds the schema declares.
var knownKinds = map[ConditionKind]bool{
	KindMetric:      true,
	KindErrorRate:   true,
	KindFeatureFlag: true,
	KindTime:        true,
	KindAlways:      true,
}

// knownOperators is the set of operators the schema declares.
var knownOperators = map[Operator]bool{
	OperatorGreaterThan:  true,
	OperatorGreaterEqual: true,
	OperatorLessThan:     true,
	OperatorLessEqual:    true,
	OperatorEqual:        true,
	OperatorNotEqual:     true,
	OperatorIn:           true,
	OperatorContains:     true,
	OperatorAlways:       true,
}

// comparableOperators is the subset of operators the engine can evaluate.
var comparableOperators = map[Operator]bool{
	OperatorGreaterThan:  true,
	OperatorGreaterEqual: true,
	OperatorLessThan:     true,
	OperatorLessEqual:    true,
	OperatorEqual:        true,
	OperatorNotEqual:     true,
	OperatorAlways:       true,
}

// knownLevels is the set of valid log levels.
var knownLevels = map[LogLevel]bool{
	LevelDebug: true,
	LevelInfo:  true,
	LevelWarn:  true,
	LevelError: true,
}

// IsKnown returns true if the kind is part of the declared schema.
func (k ConditionKind) IsKnown() bool {
	return knownKinds[k]
}

// IsKnown returns true if the operator is part of the declared schema.
func (o Operator) IsKnown() bool {
	return knownOperators[o]
}

// IsComparable returns true if the engine has an evaluation path for the operator.
func (o Operator) IsComparable() bool {
	return comparableOperators[o]
}

// IsKnown returns true if the level is a valid log level.
func (l LogLevel) IsKnown() bool {
	return knownLevels[l]
}

// Condition is a single predicate over the rolling signal aggregates.
type Condition struct {
	// Kind selects what the condition inspects.
	Kind ConditionKind `json:"kind" yaml:"kind"`

	// Op is the comparison operator.
	Op Operator `json:"op" yaml:"op"`

	// Key names the aggregate for KindMetric (e.g. "latency_p95_ms").
	Key string `json:"key,omitempty" yaml:"key,omitempty"`

	// Value is the numeric threshold. Unset compares against 0.
	Value *float64 `json:"value,omitempty" yaml:"value,omitempty"`

	// WindowS is a declared per-condition window in seconds. The current
	// engine always uses the store-wide rolling window; the field is
	// preserved on the wire but not consulted.
	WindowS *int `json:"window_s,omitempty" yaml:"window_s,omitempty"`
}

// IsAlways returns true if the condition matches unconditionally,
// either by kind or by operator.
func (c Condition) IsAlways() bool {
	return c.Kind == KindAlways || c.Op == OperatorAlways
}

// Threshold returns the comparison value, defaulting to 0 when unset.
func (c Condition) Threshold() float64 {
	if c.Value == nil {
		return 0
	}
	return *c.Value
}

// Action is a partial runtime configuration overlay. Each field is
// independently optional; unset fields never override.
type Action struct {
	LogLevel        *LogLevel `json:"log_level,omitempty" yaml:"log_level,omitempty"`
	TraceSampleRate *float64  `json:"trace_sample_rate,omitempty" yaml:"trace_sample_rate,omitempty"`
	MetricPeriodS   *int      `json:"metric_period_s,omitempty" yaml:"metric_period_s,omitempty"`
}

// IsZero returns true if the action sets no fields.
func (a Action) IsZero() bool {
	return a.LogLevel == nil && a.TraceSampleRate == nil && a.MetricPeriodS == nil
}

// Validate checks the action's field bounds.
func (a Action) Validate() error {
	if a.LogLevel != nil && !a.LogLevel.IsKnown() {
		return fmt.Errorf("invalid log_level %q", *a.LogLevel)
	}
	if a.TraceSampleRate != nil && (*a.TraceSampleRate < 0 || *a.TraceSampleRate > 1) {
		return fmt.Errorf("trace_sample_rate %v out of range [0,1]", *a.TraceSampleRate)
	}
	if a.MetricPeriodS != nil && *a.MetricPeriodS < 1 {
		return fmt.Errorf("metric_period_s %d must be >= 1", *a.MetricPeriodS)
	}
	return nil
}

// Rule is a scoped, prioritized condition/action pair.
type Rule struct {
	// ID is unique within a policy.
	ID string `json:"id" yaml:"id"`

	// Description is a human-readable explanation of the rule.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Service scopes the rule to a single service. Empty matches any service.
	Service string `json:"service,omitempty" yaml:"service,omitempty"`

	// Environment scopes the rule to a single environment. Empty matches any.
	Environment string `json:"environment,omitempty" yaml:"environment,omitempty"`

	// Priority orders evaluation: lower values run first. Later rules win
	// field-by-field on overlapping actions.
	Priority int `json:"priority" yaml:"priority"`

	// Conditions are evaluated with AND semantics. An empty list always matches.
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`

	// Actions is the configuration overlay applied when the rule matches.
	Actions Action `json:"actions" yaml:"actions"`

	// Enabled gates the rule. Disabled rules are skipped entirely.
	Enabled bool `json:"enabled" yaml:"enabled"`
}

// DefaultRulePriority is assigned when a rule omits its priority.
const DefaultRulePriority = 100

// ruleDefaults is the decode target carrying wire defaults for optional fields.
// Rules are enabled by default and default to priority 100 when unset.
type ruleDefaults Rule

func newRuleDefaults() ruleDefaults {
	return ruleDefaults{Priority: DefaultRulePriority, Enabled: true}
}

// UnmarshalJSON decodes a rule applying wire defaults for priority and enabled.
func (r *Rule) UnmarshalJSON(data []byte) error {
	rd := newRuleDefaults()
	if err := json.Unmarshal(data, &rd); err != nil {
		return err
	}
	*r = Rule(rd)
	return nil
}

// UnmarshalYAML decodes a rule applying wire defaults for priority and enabled.
func (r *Rule) UnmarshalYAML(unmarshal func(interface{}) error) error {
	rd := newRuleDefaults()
	if err := unmarshal(&rd); err != nil {
		return err
	}
	*r = Rule(rd)
	return nil
}

// MatchesScope returns true if the rule applies to the given service and
// environment. An unset dimension matches any value; set dimensions require
// an exact match (there is no glob form).
func (r *Rule) MatchesScope(service, environment string) bool {
	if r.Service != "" && r.Service != service {
		return false
	}
	if r.Environment != "" && r.Environment != environment {
		return false
	}
	return true
}

// Policy is the root document: an identified, ordered collection of rules.
type Policy struct {
	ID          string  `json:"id" yaml:"id"`
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Rules       []*Rule `json:"rules" yaml:"rules"`
}

// EnabledRules returns the policy's enabled rules in declaration order.
func (p *Policy) EnabledRules() []*Rule {
	var enabled []*Rule
	for _, rule := range p.Rules {
		if rule.Enabled {
			enabled = append(enabled, rule)
		}
	}
	return enabled
}

// GetRule returns the rule with the given id, or nil if not found.
func (p *Policy) GetRule(id string) *Rule {
	for _, rule := range p.Rules {
		if rule.ID == id {
			return rule
		}
	}
	return nil
}

// Clone returns a deep copy of the policy. The store hands out clones so
// callers can never mutate the active policy in place.
func (p *Policy) Clone() *Policy {
	if p == nil {
		return nil
	}
	cp := &Policy{
		ID:          p.ID,
		Description: p.Description,
		Rules:       make([]*Rule, 0, len(p.Rules)),
	}
	for _, rule := range p.Rules {
		rc := *rule
		rc.Conditions = append([]Condition(nil), rule.Conditions...)
		rc.Actions = cloneAction(rule.Actions)
		cp.Rules = append(cp.Rules, &rc)
	}
	return cp
}

func cloneAction(a Action) Action {
	var out Action
	if a.LogLevel != nil {
		v := *a.LogLevel
		out.LogLevel = &v
	}
	if a.TraceSampleRate != nil {
		v := *a.TraceSampleRate
		out.TraceSampleRate = &v
	}
	if a.MetricPeriodS != nil {
		v := *a.MetricPeriodS
		out.MetricPeriodS = &v
	}
	return out
}
