package policy

// Validate checks a policy against the schema invariants:
//
//   - policy id is set
//   - rule ids are set and unique within the policy
//   - action fields are within bounds (trace_sample_rate in [0,1], metric_period_s >= 1)
//   - condition kinds and operators come from the recognized sets
//
// Kinds and operators that are declared but have no evaluation path
// (feature_flag, time, in, contains) pass validation but produce warnings,
// since rules relying on them can never match.
//
// Returns nil when the policy is valid; the returned *ValidationError may
// still carry warnings, which callers can surface via Lint.
func Validate(p *Policy) error {
	ve := Lint(p)
	if ve.HasErrors() {
		return ve
	}
	return nil
}

// Lint runs full validation and returns all findings, fatal and advisory,
// regardless of outcome. Used by Validate and by the offline lint command.
func Lint(p *Policy) *ValidationError {
	ve := &ValidationError{}
	if p == nil {
		ve.addf("policy is nil")
		return ve
	}
	ve.PolicyID = p.ID

	if p.ID == "" {
		ve.addf("policy id is required")
	}

	seen := make(map[string]bool, len(p.Rules))
	for i, rule := range p.Rules {
		if rule == nil {
			ve.addf("rule %d is null", i)
			continue
		}
		if rule.ID == "" {
			ve.addf("rule %d: id is required", i)
		} else if seen[rule.ID] {
			ve.addf("rule %q: duplicate id", rule.ID)
		} else {
			seen[rule.ID] = true
		}

		if err := rule.Actions.Validate(); err != nil {
			ve.addf("rule %q: %v", rule.ID, err)
		}

		for j, cond := range rule.Conditions {
			lintCondition(ve, rule.ID, j, cond)
		}
	}

	return ve
}

// lintCondition records findings for a single condition.
func lintCondition(ve *ValidationError, ruleID string, idx int, c Condition) {
	if !c.Kind.IsKnown() {
		ve.addf("rule %q condition %d: unknown kind %q", ruleID, idx, c.Kind)
		return
	}
	if !c.Op.IsKnown() {
		ve.addf("rule %q condition %d: unknown operator %q", ruleID, idx, c.Op)
		return
	}
	if c.IsAlways() {
		return
	}

	switch c.Kind {
	case KindFeatureFlag, KindTime:
		ve.warnf("rule %q condition %d: kind %q has no evaluation path and never matches", ruleID, idx, c.Kind)
	case KindMetric:
		if c.Key == "" {
			ve.warnf("rule %q condition %d: metric condition without key compares against 0", ruleID, idx)
		}
	}

	if !c.Op.IsComparable() {
		ve.warnf("rule %q condition %d: operator %q has no evaluation path and never matches", ruleID, idx, c.Op)
	}
	if c.WindowS != nil {
		ve.warnf("rule %q condition %d: window_s is declared but the store-wide rolling window applies", ruleID, idx)
	}
}
