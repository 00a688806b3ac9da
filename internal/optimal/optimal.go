// Package optimal computes the exact minimum number of edits that makes a
// password compliant, without simulating the edits.
//
// The count splits into three terms: length changes (inserts below the
// minimum, deletes above the maximum), missing classes, and replacements
// needed to break repeated runs. One insert or replace can settle a class
// and a run at the same time, so below the maximum the answer is the largest
// term. Above the maximum, deletions are aimed at runs first: a run whose
// length leaves remainder r against the window loses one replacement for
// every r+1 deletions, so cheap remainders are spent first.
package optimal

import (
	"github.com/jonathan/strongpass/internal/classes"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/runs"
)

// Estimate breaks the minimum edit count into its terms.
type Estimate struct {
	Total        int `json:"total"`
	Insertions   int `json:"insertions"`   // Length shortfall below MinLength
	Deletions    int `json:"deletions"`    // Length excess above MaxLength
	Missing      int `json:"missing"`      // Absent character classes
	Replacements int `json:"replacements"` // Run fixes left after deletions
}

// MinimumEdits returns the exact minimum edit count for password.
func MinimumEdits(password string, p policy.Policy) int {
	return Compute(password, p).Total
}

// Compute returns the minimum edit count for password with its breakdown.
func Compute(password string, p policy.Policy) Estimate {
	s := []rune(password)
	window := p.Window()
	partition := runs.PartitionRunes(nil, s)

	est := Estimate{
		Missing:      classes.CoverageOf(s).Missing(),
		Replacements: runs.Fixes(partition, window),
	}

	n := len(s)
	switch {
	case p.BelowMin(n):
		est.Insertions = p.MinLength - n
		est.Total = max(est.Insertions, est.Missing, est.Replacements)
	case !p.AboveMax(n):
		est.Total = max(est.Missing, est.Replacements)
	default:
		est.Deletions = n - p.MaxLength
		est.Replacements = replacementsAfterDeletions(partition, window, est.Deletions, est.Replacements)
		est.Total = est.Deletions + max(est.Missing, est.Replacements)
	}

	return est
}

// replacementsAfterDeletions spends deletions on runs, cheapest remainder
// first, and returns the replacements still needed.
func replacementsAfterDeletions(partition []runs.Run, window, deletions, replacements int) int {
	// byRemainder[r] counts actionable runs whose length leaves remainder r
	byRemainder := make([]int, window)
	for _, r := range partition {
		if kind := runs.Classify(r, window); kind != runs.NoViolation {
			byRemainder[kind]++
		}
	}

	remaining := deletions
	for r, count := range byRemainder {
		cost := r + 1
		used := min(count, remaining/cost)
		replacements -= used
		remaining -= used * cost
	}

	// every run touched above now sits at remainder window-1, so each
	// further replacement costs a full window of deletions
	replacements -= remaining / window

	return max(replacements, 0)
}
