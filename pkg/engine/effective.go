package engine

import "signalhq/beacon/pkg/policy"

// EffectiveConfig is the fully-defaulted, rule-overlaid runtime configuration
// returned to a querying agent. Every field is always populated.
type EffectiveConfig struct {
	Service         string          `json:"service"`
	Environment     string          `json:"environment"`
	LogLevel        policy.LogLevel `json:"log_level"`
	TraceSampleRate float64         `json:"trace_sample_rate"`
	MetricPeriodS   int             `json:"metric_period_s"`
}

// Defaults applied when no rule sets a field.
const (
	DefaultLogLevel        = policy.LevelInfo
	DefaultTraceSampleRate = 0.1
	DefaultMetricPeriodS   = 60
)

// DefaultConfig returns the EffectiveConfig defaults for a key.
func DefaultConfig(service, environment string) EffectiveConfig {
	return EffectiveConfig{
		Service:         service,
		Environment:     environment,
		LogLevel:        DefaultLogLevel,
		TraceSampleRate: DefaultTraceSampleRate,
		MetricPeriodS:   DefaultMetricPeriodS,
	}
}

// Apply overlays an action onto the config field by field. Unset action
// fields never override; last write per field wins across matched rules.
func (c *EffectiveConfig) Apply(a policy.Action) {
	if a.LogLevel != nil {
		c.LogLevel = *a.LogLevel
	}
	if a.TraceSampleRate != nil {
		c.TraceSampleRate = *a.TraceSampleRate
	}
	if a.MetricPeriodS != nil {
		c.MetricPeriodS = *a.MetricPeriodS
	}
}
