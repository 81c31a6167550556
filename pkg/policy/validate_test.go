package policy

import (
	"strings"
	"testing"
)

func validPolicy() *Policy {
	return &Policy{
		ID: "p1",
		Rules: []*Rule{
			{
				ID:       "r1",
				Priority: 10,
				Conditions: []Condition{
					{Kind: KindErrorRate, Op: OperatorGreaterThan, Value: floatPtr(0.05)},
				},
				Actions: Action{LogLevel: levelPtr(LevelDebug)},
				Enabled: true,
			},
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Policy)
		wantErr string
	}{
		{
			name:   "valid policy",
			mutate: func(p *Policy) {},
		},
		{
			name:    "missing policy id",
			mutate:  func(p *Policy) { p.ID = "" },
			wantErr: "policy id is required",
		},
		{
			name: "duplicate rule ids",
			mutate: func(p *Policy) {
				dup := *p.Rules[0]
				p.Rules = append(p.Rules, &dup)
			},
			wantErr: "duplicate id",
		},
		{
			name:    "missing rule id",
			mutate:  func(p *Policy) { p.Rules[0].ID = "" },
			wantErr: "id is required",
		},
		{
			name:    "trace sample rate out of range",
			mutate:  func(p *Policy) { p.Rules[0].Actions.TraceSampleRate = floatPtr(1.5) },
			wantErr: "trace_sample_rate",
		},
		{
			name:    "metric period below one",
			mutate:  func(p *Policy) { p.Rules[0].Actions.MetricPeriodS = intPtr(0) },
			wantErr: "metric_period_s",
		},
		{
			name:    "unknown condition kind",
			mutate:  func(p *Policy) { p.Rules[0].Conditions[0].Kind = "regex" },
			wantErr: "unknown kind",
		},
		{
			name:    "unknown operator",
			mutate:  func(p *Policy) { p.Rules[0].Conditions[0].Op = "~=" },
			wantErr: "unknown operator",
		},
		{
			name:    "null rule",
			mutate:  func(p *Policy) { p.Rules = append(p.Rules, nil) },
			wantErr: "is null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(p)

			err := Validate(p)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() = nil, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLint_Warnings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Policy)
		wantWarn string
	}{
		{
			name:     "feature_flag kind never matches",
			mutate:   func(p *Policy) { p.Rules[0].Conditions[0].Kind = KindFeatureFlag },
			wantWarn: "never matches",
		},
		{
			name:     "time kind never matches",
			mutate:   func(p *Policy) { p.Rules[0].Conditions[0].Kind = KindTime },
			wantWarn: "never matches",
		},
		{
			name:     "in operator never matches",
			mutate:   func(p *Policy) { p.Rules[0].Conditions[0].Op = OperatorIn },
			wantWarn: "never matches",
		},
		{
			name:     "contains operator never matches",
			mutate:   func(p *Policy) { p.Rules[0].Conditions[0].Op = OperatorContains },
			wantWarn: "never matches",
		},
		{
			name: "metric without key",
			mutate: func(p *Policy) {
				p.Rules[0].Conditions[0].Kind = KindMetric
				p.Rules[0].Conditions[0].Key = ""
			},
			wantWarn: "without key",
		},
		{
			name:     "window_s is advisory only",
			mutate:   func(p *Policy) { p.Rules[0].Conditions[0].WindowS = intPtr(60) },
			wantWarn: "window_s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(p)

			ve := Lint(p)
			if ve.HasErrors() {
				t.Fatalf("Lint() unexpected errors: %v", ve.Errors)
			}
			found := false
			for _, w := range ve.Warnings {
				if strings.Contains(w, tt.wantWarn) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("Lint() warnings = %v, want one containing %q", ve.Warnings, tt.wantWarn)
			}

			// Warnings never block validation.
			if err := Validate(p); err != nil {
				t.Errorf("Validate() error = %v, want nil for warning-only policy", err)
			}
		})
	}
}

func TestLint_AlwaysConditionSkipsAdvisories(t *testing.T) {
	p := validPolicy()
	p.Rules[0].Conditions[0] = Condition{Kind: KindAlways, Op: OperatorAlways}

	ve := Lint(p)
	if ve.HasErrors() || len(ve.Warnings) != 0 {
		t.Errorf("Lint() = errors %v warnings %v, want clean pass", ve.Errors, ve.Warnings)
	}
}
