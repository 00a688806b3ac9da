// Package types provides type definitions for structured data used throughout the strongpass system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Violation type values
const (
	ViolationTooShort     = "too_short"
	ViolationTooLong      = "too_long"
	ViolationRepeatedRun  = "repeated_run"
	ViolationMissingClass = "missing_class"
)

// SeverityError is the only severity the policy produces today; every
// violation blocks compliance.
const SeverityError = "error"

// Violation represents a single policy breach
type Violation struct {
	Type     string `json:"type"`
	Severity string `json:"severity"`
	Details  string `json:"details"`

	// Fields locating the breach inside the password
	Offset *int   `json:"offset,omitempty"` // Start of a repeated run (rune offset)
	Length *int   `json:"length,omitempty"` // Run length, or password length for length breaches
	Class  string `json:"class,omitempty"`  // Missing character class
}

// Violations represents a collection of policy breaches
type Violations struct {
	Violations []Violation `json:"violations"`
}

// Empty reports whether there are no violations.
func (v *Violations) Empty() bool {
	return v == nil || len(v.Violations) == 0
}

// Count returns the number of violations of the given type.
func (v *Violations) Count(violationType string) int {
	if v == nil {
		return 0
	}
	n := 0
	for _, violation := range v.Violations {
		if violation.Type == violationType {
			n++
		}
	}
	return n
}
