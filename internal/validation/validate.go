// Package validation checks passwords against the strong password policy.
package validation

import (
	"fmt"

	"github.com/jonathan/strongpass/internal/classes"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/runs"
	"github.com/jonathan/strongpass/internal/types"
)

// IsCompliant reports whether password satisfies the length bounds, the
// repeat rule and class coverage. It never modifies its input.
func IsCompliant(password string, p policy.Policy) bool {
	s := []rune(password)
	return CompliantRunes(s, runs.PartitionRunes(nil, s), p)
}

// CompliantRunes is IsCompliant for a buffer whose partition is already known.
func CompliantRunes(s []rune, partition []runs.Run, p policy.Policy) bool {
	if p.BelowMin(len(s)) || p.AboveMax(len(s)) {
		return false
	}
	if _, ok := runs.FirstActionable(partition, p.Window()); ok {
		return false
	}
	return classes.CoverageOf(s).Satisfied()
}

// Check lists every policy breach in password, in order: length, repeated
// runs from left to right, then missing classes.
func Check(password string, p policy.Policy) *types.Violations {
	s := []rune(password)
	allViolations := make([]types.Violation, 0)

	// 1. Length bounds
	n := len(s)
	if p.BelowMin(n) {
		allViolations = append(allViolations, types.Violation{
			Type:     types.ViolationTooShort,
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("password has %d characters, minimum is %d", n, p.MinLength),
			Length:   &n,
		})
	}
	if p.AboveMax(n) {
		allViolations = append(allViolations, types.Violation{
			Type:     types.ViolationTooLong,
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("password has %d characters, maximum is %d", n, p.MaxLength),
			Length:   &n,
		})
	}

	// 2. Repeated runs
	for _, r := range runs.Actionable(runs.PartitionRunes(nil, s), p.Window()) {
		offset, length := r.Start, r.Length
		allViolations = append(allViolations, types.Violation{
			Type:     types.ViolationRepeatedRun,
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("%d consecutive %q at offset %d, maximum is %d", length, string(s[offset]), offset, p.MaxRepeat),
			Offset:   &offset,
			Length:   &length,
		})
	}

	// 3. Character classes
	for _, cl := range classes.CoverageOf(s).MissingClasses() {
		allViolations = append(allViolations, types.Violation{
			Type:     types.ViolationMissingClass,
			Severity: types.SeverityError,
			Details:  fmt.Sprintf("no %s character", cl),
			Class:    cl.String(),
		})
	}

	return &types.Violations{Violations: allViolations}
}
