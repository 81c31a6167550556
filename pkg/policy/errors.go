package policy

import (
	"fmt"
	"strings"
)

// ValidationError reports why a policy was rejected. The whole replacement is
// rejected atomically: the previously active policy stays authoritative.
type ValidationError struct {
	// PolicyID is the id of the rejected policy.
	PolicyID string

	// Errors are the individual validation failures.
	Errors []string

	// Warnings are non-fatal findings (e.g. rules that can never match).
	Warnings []string
}

// Error returns the combined validation failure message.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("policy %q validation failed: %s", e.PolicyID, strings.Join(e.Errors, "; "))
}

// HasErrors returns true if any fatal validation failure was recorded.
func (e *ValidationError) HasErrors() bool {
	return len(e.Errors) > 0
}

func (e *ValidationError) addf(format string, args ...interface{}) {
	e.Errors = append(e.Errors, fmt.Sprintf(format, args...))
}

func (e *ValidationError) warnf(format string, args ...interface{}) {
	e.Warnings = append(e.Warnings, fmt.Sprintf(format, args...))
}
