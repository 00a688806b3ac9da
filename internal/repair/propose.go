// Package repair turns an arbitrary string into a strong password with a
// greedy sequence of single-character edits.
package repair

import (
	"github.com/jonathan/strongpass/internal/classes"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/types"
)

// noRune stands in for a missing neighbour.
const noRune rune = -1

// fillCandidates are tried in order; three per class is enough to dodge
// both neighbours and the replaced character.
var fillCandidates = map[classes.Class][]rune{
	classes.Lower: []rune("zyx"),
	classes.Digit: []rune("987"),
	classes.Upper: []rune("ZYX"),
}

// proposeInsert grows a short password. Inside an actionable run the new
// character splits the run; otherwise it goes at the front.
func proposeInsert(buf []rune, p policy.Policy, repeat int, hasRepeat bool) types.Edit {
	offset := 0
	if hasRepeat {
		offset = repeat + p.MaxRepeat
	}
	return types.Edit{
		Kind:   types.EditInsert,
		Offset: offset,
		Char:   string(chooseFill(buf, offset, false)),
		Reason: types.ViolationTooShort,
	}
}

// proposeDelete shrinks a long password, preferring a character that also
// shortens an actionable run.
func proposeDelete(buf []rune, p policy.Policy, repeat int, hasRepeat bool) types.Edit {
	offset := findSafeIndex(buf)
	if hasRepeat {
		offset = repeat + p.MaxRepeat
	}
	return types.Edit{
		Kind:     types.EditDelete,
		Offset:   offset,
		Previous: string(buf[offset]),
		Reason:   types.ViolationTooLong,
	}
}

// proposeReplace fixes a password whose length is already in bounds.
func proposeReplace(buf []rune, p policy.Policy, repeat int, hasRepeat bool) types.Edit {
	offset := findSafeIndex(buf)
	reason := types.ViolationMissingClass
	if hasRepeat {
		offset = repeat + p.MaxRepeat
		reason = types.ViolationRepeatedRun
	}
	return types.Edit{
		Kind:     types.EditReplace,
		Offset:   offset,
		Char:     string(chooseFill(buf, offset, true)),
		Previous: string(buf[offset]),
		Reason:   reason,
	}
}

// findSafeIndex returns the first offset whose character can be removed or
// overwritten without losing class coverage: either it has no class, or
// another character of its class remains. It returns 0 when every
// character is the last of its class.
func findSafeIndex(buf []rune) int {
	counts := make(map[classes.Class]int, 4)
	for _, r := range buf {
		counts[classes.Of(r)]++
	}

	for i, r := range buf {
		cl := classes.Of(r)
		if cl == classes.None || counts[cl] > 1 {
			return i
		}
	}
	return 0
}

// chooseFill picks the character to insert at, or write over, offset.
// It takes the first missing class in lower, digit, upper order (upper when
// nothing is missing) and the first candidate of that class that differs
// from both neighbours at the edit point and from the replaced character.
func chooseFill(buf []rune, offset int, replacing bool) rune {
	class := classes.Upper
	coverage := classes.CoverageOf(buf)
	for _, cl := range classes.Required {
		if !coverage.Has(cl) {
			class = cl
			break
		}
	}

	left, right, current := noRune, noRune, noRune
	if offset > 0 {
		left = buf[offset-1]
	}
	next := offset
	if replacing {
		current = buf[offset]
		next = offset + 1
	}
	if next < len(buf) {
		right = buf[next]
	}

	candidates := fillCandidates[class]
	for _, c := range candidates {
		if c != left && c != right && c != current {
			return c
		}
	}
	return candidates[0]
}
