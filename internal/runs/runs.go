// Package runs partitions a password into maximal runs of identical
// characters and classifies the runs that break the repeat rule.
package runs

import "fmt"

// Run is a maximal stretch of identical characters, in rune offsets.
type Run struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// End returns the offset just past the run.
func (r Run) End() int {
	return r.Start + r.Length
}

// Kind classifies a run by how many edits it needs and how cheaply
// deletions can retire one of them.
type Kind int

// NoViolation marks a run shorter than the window. Any other Kind is the
// run length modulo the window; Mod0, Mod1 and Mod2 are the kinds of the
// default three-character window.
const (
	NoViolation Kind = -1
	Mod0        Kind = 0
	Mod1        Kind = 1
	Mod2        Kind = 2
)

func (k Kind) String() string {
	if k == NoViolation {
		return "ok"
	}
	return fmt.Sprintf("mod%d", int(k))
}

// Classify returns the kind of r for a repeat window (the shortest
// forbidden run length).
func Classify(r Run, window int) Kind {
	mustWindow(window)
	if r.Length < window {
		return NoViolation
	}
	return Kind(r.Length % window)
}

// Partition splits s into its runs.
func Partition(s string) []Run {
	return PartitionRunes(nil, []rune(s))
}

// PartitionRunes splits s into its runs, appending to dst[:0] so callers
// can reuse one slice across iterations.
func PartitionRunes(dst []Run, s []rune) []Run {
	dst = dst[:0]
	if len(s) == 0 {
		return dst
	}

	start := 0
	for i := 1; i < len(s); i++ {
		if s[i] != s[i-1] {
			dst = append(dst, Run{Start: start, Length: i - start})
			start = i
		}
	}
	// the trailing run has no differing successor to close it
	dst = append(dst, Run{Start: start, Length: len(s) - start})

	return dst
}

// FirstActionable returns the start of the run the planner should edit
// next. A run whose length is a multiple of the window wins outright;
// otherwise the first run of the smallest remainder wins. ok is false when
// no run reaches the window.
func FirstActionable(runs []Run, window int) (offset int, ok bool) {
	mustWindow(window)

	// first[k] is the start of the first run of kind k
	first := make([]int, window)
	for i := range first {
		first[i] = -1
	}

	for _, r := range runs {
		kind := Classify(r, window)
		switch {
		case kind == NoViolation:
			continue
		case kind == Mod0:
			return r.Start, true
		case first[kind] == -1:
			first[kind] = r.Start
		}
	}

	for _, start := range first[1:] {
		if start >= 0 {
			return start, true
		}
	}
	return 0, false
}

// Fixes counts the replacements needed to break every run: one per full
// window inside each run.
func Fixes(runs []Run, window int) int {
	mustWindow(window)
	total := 0
	for _, r := range runs {
		total += r.Length / window
	}
	return total
}

// Actionable returns the runs that reach the window, in order.
func Actionable(runs []Run, window int) []Run {
	mustWindow(window)
	var out []Run
	for _, r := range runs {
		if r.Length >= window {
			out = append(out, r)
		}
	}
	return out
}

func mustWindow(window int) {
	if window < 2 {
		panic(fmt.Sprintf("runs: window must be at least 2, got %d", window))
	}
}
