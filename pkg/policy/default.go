package policy

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }
func levelPtr(l LogLevel) *LogLevel {
	return &l
}

// Default returns the policy seeded at startup when no policy file is
// configured. It elevates logging and sampling on error spikes and slow
// requests, and tightens defaults in prod.
func Default() *Policy {
	return &Policy{
		ID:          "default",
		Description: "Default adaptive policy",
		Rules: []*Rule{
			{
				ID:          "elevate-on-errors",
				Description: "If error rate > 2% over 1m raise sampling and logging",
				Priority:    10,
				Conditions: []Condition{
					{Kind: KindErrorRate, Op: OperatorGreaterThan, Key: "rate", Value: floatPtr(0.02), WindowS: intPtr(60)},
				},
				Actions: Action{
					LogLevel:        levelPtr(LevelDebug),
					TraceSampleRate: floatPtr(0.5),
					MetricPeriodS:   intPtr(15),
				},
				Enabled: true,
			},
			{
				ID:          "slow-requests",
				Description: "If latency p95 > 400ms over 1m",
				Priority:    20,
				Conditions: []Condition{
					{Kind: KindMetric, Op: OperatorGreaterThan, Key: "latency_p95_ms", Value: floatPtr(400), WindowS: intPtr(60)},
				},
				Actions: Action{
					LogLevel:        levelPtr(LevelDebug),
					TraceSampleRate: floatPtr(0.4),
					MetricPeriodS:   intPtr(20),
				},
				Enabled: true,
			},
			{
				ID:          "prod-defaults",
				Description: "Tighter defaults in prod",
				Environment: "prod",
				Priority:    0,
				Conditions: []Condition{
					{Kind: KindAlways, Op: OperatorAlways},
				},
				Actions: Action{
					LogLevel:        levelPtr(LevelInfo),
					TraceSampleRate: floatPtr(0.2),
					MetricPeriodS:   intPtr(30),
				},
				Enabled: true,
			},
		},
	}
}
