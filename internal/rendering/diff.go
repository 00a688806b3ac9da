// Package rendering renders the difference between a password and its
// repaired form.
package rendering

import (
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Op classifies a diff segment.
type Op string

// Segment ops
const (
	OpEqual  Op = "equal"
	OpInsert Op = "insert"
	OpDelete Op = "delete"
)

// Segment is a run of characters that is kept, inserted or deleted.
type Segment struct {
	Op   Op     `json:"op"`
	Text string `json:"text"`
}

var (
	insertColor = color.New(color.FgGreen, color.Bold)
	deleteColor = color.New(color.FgRed, color.CrossedOut)
)

// Diff returns the character-level segments that turn original into
// repaired.
func Diff(original, repaired string) []Segment {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(original, repaired, false)

	segments := make([]Segment, 0, len(diffs))
	for _, d := range diffs {
		var op Op
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			op = OpInsert
		case diffmatchpatch.DiffDelete:
			op = OpDelete
		default:
			op = OpEqual
		}
		segments = append(segments, Segment{Op: op, Text: d.Text})
	}
	return segments
}

// Original rebuilds the first text from segments.
func Original(segments []Segment) string {
	return join(segments, OpDelete)
}

// Repaired rebuilds the second text from segments.
func Repaired(segments []Segment) string {
	return join(segments, OpInsert)
}

func join(segments []Segment, side Op) string {
	var sb strings.Builder
	for _, s := range segments {
		if s.Op == OpEqual || s.Op == side {
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// DiffText renders the diff inline with word-diff markers: deletions as
// [-x-] and insertions as {+y+}.
func DiffText(original, repaired string) string {
	var sb strings.Builder
	for _, s := range Diff(original, repaired) {
		switch s.Op {
		case OpInsert:
			sb.WriteString("{+" + s.Text + "+}")
		case OpDelete:
			sb.WriteString("[-" + s.Text + "-]")
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}

// DiffColor renders the diff with terminal colours, falling back to the
// DiffText markers when colour output is disabled.
func DiffColor(original, repaired string) string {
	if color.NoColor {
		return DiffText(original, repaired)
	}

	var sb strings.Builder
	for _, s := range Diff(original, repaired) {
		switch s.Op {
		case OpInsert:
			sb.WriteString(insertColor.Sprint(s.Text))
		case OpDelete:
			sb.WriteString(deleteColor.Sprint(s.Text))
		default:
			sb.WriteString(s.Text)
		}
	}
	return sb.String()
}
