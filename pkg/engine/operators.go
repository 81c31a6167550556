package engine

import "signalhq/beacon/pkg/policy"

// compare evaluates a numeric comparison for the finite operator set.
//
// The second return reports whether the operator has an evaluation path.
// Operators without one ("in", "contains", unrecognized tokens) are an
// enumerated non-match outcome: the condition fails closed, never raises.
func compare(op policy.Operator, actual, threshold float64) (matched, supported bool) {
	switch op {
	case policy.OperatorGreaterThan:
		return actual > threshold, true
	case policy.OperatorGreaterEqual:
		return actual >= threshold, true
	case policy.OperatorLessThan:
		return actual < threshold, true
	case policy.OperatorLessEqual:
		return actual <= threshold, true
	case policy.OperatorEqual:
		return actual == threshold, true
	case policy.OperatorNotEqual:
		return actual != threshold, true
	default:
		return false, false
	}
}
