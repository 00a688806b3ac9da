// Package repair turns an arbitrary string into a strong password with a
// greedy sequence of single-character edits.
package repair

import (
	"fmt"

	"github.com/jonathan/strongpass/internal/classes"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/runs"
	"github.com/jonathan/strongpass/internal/types"
)

// Result holds the outcome of a repair run
type Result struct {
	Steps    int          `json:"steps"`
	Password string       `json:"password"`
	Edits    []types.Edit `json:"edits,omitempty"`
}

// MinimumEdits returns the number of edits the planner needs to make
// password compliant.
func MinimumEdits(password string, p policy.Policy) int {
	return run(password, p, false).Steps
}

// Repair returns the edit count together with the compliant password the
// edits produce.
func Repair(password string, p policy.Policy) (int, string) {
	result := run(password, p, false)
	return result.Steps, result.Password
}

// Run repairs password and records every applied edit.
// The policy must pass Validate; an invalid policy is a programming error.
func Run(password string, p policy.Policy) *Result {
	return run(password, p, true)
}

func run(password string, p policy.Policy, record bool) *Result {
	if err := p.Validate(); err != nil {
		panic(fmt.Sprintf("repair: %v", err))
	}

	buf := []rune(password)
	partition := make([]runs.Run, 0, len(buf))
	limit := iterationLimit(len(buf), p)
	result := &Result{}

	// Each pass re-reads the current buffer, proposes one edit and applies it.
	// The loop ends once the buffer is within bounds with no actionable run
	// and full class coverage.
	for {
		partition = runs.PartitionRunes(partition, buf)
		repeat, hasRepeat := runs.FirstActionable(partition, p.Window())

		var edit types.Edit
		switch {
		case p.BelowMin(len(buf)):
			edit = proposeInsert(buf, p, repeat, hasRepeat)
		case p.AboveMax(len(buf)):
			edit = proposeDelete(buf, p, repeat, hasRepeat)
		default:
			if !hasRepeat && classes.CoverageOf(buf).Satisfied() {
				result.Password = string(buf)
				return result
			}
			edit = proposeReplace(buf, p, repeat, hasRepeat)
		}

		buf = apply(buf, edit)
		result.Steps++
		if record {
			result.Edits = append(result.Edits, edit)
		}

		if result.Steps > limit {
			panic(fmt.Sprintf("repair: no convergence after %d edits on %d characters (%s)", result.Steps, len([]rune(password)), p))
		}
	}
}

// iterationLimit bounds the loop: at most MinLength inserts, n deletes, and
// one replacement per full window or missing class of what remains.
func iterationLimit(n int, p policy.Policy) int {
	return 2*(n+p.MinLength) + len(classes.Required)
}
