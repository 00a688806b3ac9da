// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/jonathan/strongpass/internal/policy"
	"github.com/jonathan/strongpass/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

var (
	passColor = color.New(color.FgGreen, color.Bold)
	failColor = color.New(color.FgRed, color.Bold)
	dimColor  = color.New(color.FgHiBlack)
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// truncate shortens s to at most width runes, marking the cut with "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintStatus writes a one-line PASS/FAIL label followed by msg.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStatus(ok bool, msg string) {
	if ok {
		passColor.Fprint(p.out, "PASS")
	} else {
		failColor.Fprint(p.out, "FAIL")
	}
	fmt.Fprintf(p.out, " %s\n", msg)
}

// PrintPolicy outputs the effective policy.
func (p *Printer) PrintPolicy(pol policy.Policy) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Min length:  %d\n", pol.MinLength))
	sb.WriteString(fmt.Sprintf("Max length:  %d\n", pol.MaxLength))
	sb.WriteString(fmt.Sprintf("Max repeat:  %d\n", pol.MaxRepeat))
	sb.WriteString("Requires:    lowercase, uppercase, digit")

	p.printBox("PASSWORD POLICY", sb.String())
}

// PrintViolations outputs any policy violations found.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintViolations(violations *types.Violations) {
	if violations.Empty() {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, "✅ NO VIOLATIONS FOUND")
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d violations:\n\n", len(violations.Violations)))

	for i, v := range violations.Violations {
		sb.WriteString(fmt.Sprintf("⚠ %s\n", v.Type))
		sb.WriteString(fmt.Sprintf("  %s\n", truncate(v.Details, 50)))
		if i < len(violations.Violations)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("POLICY VIOLATIONS", sb.String())
}

// PrintEdits outputs the edit log of a repair.
func (p *Printer) PrintEdits(edits []types.Edit) {
	if len(edits) == 0 {
		p.printBox("EDIT LOG", "No edits needed")
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Applied %d edits:\n\n", len(edits)))
	for i, e := range edits {
		sb.WriteString(fmt.Sprintf("%2d. %s", i+1, e))
		if i < len(edits)-1 {
			sb.WriteString("\n")
		}
	}

	p.printBox("EDIT LOG", sb.String())
}

// PrintReport outputs the outcome for one password.
func (p *Printer) PrintReport(report *types.Report) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Input:     %q\n", report.Input))
	sb.WriteString(fmt.Sprintf("Compliant: %t\n", report.Compliant))
	sb.WriteString(fmt.Sprintf("Steps:     %d (minimum %d)\n", report.Steps, report.Minimum))
	sb.WriteString(fmt.Sprintf("Repaired:  %q", report.Repaired))

	p.printBox(fmt.Sprintf("PASSWORD #%d", report.Index+1), sb.String())
}

// PrintBatchSummary outputs the aggregate of a batch run and the first few
// non-compliant inputs.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintBatchSummary(report *types.BatchReport) {
	if report == nil {
		return
	}

	s := report.Summary
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Policy:    length %d-%d, max repeat %d\n",
		report.Policy.MinLength, report.Policy.MaxLength, report.Policy.MaxRepeat))
	sb.WriteString(fmt.Sprintf("Passwords: %d (%d compliant)\n", s.Total, s.Compliant))
	sb.WriteString(fmt.Sprintf("Steps:     %d (minimum %d)", s.TotalSteps, s.TotalMinimum))

	shown := 0
	for _, r := range report.Results {
		if r.Compliant {
			continue
		}
		if shown == 0 {
			sb.WriteString("\n\nNon-compliant:\n")
		}
		if shown == maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more", s.Total-s.Compliant-maxItemsToShow))
			break
		}
		sb.WriteString(fmt.Sprintf("  #%d needs %d edits\n", r.Index+1, r.Steps))
		shown++
	}

	p.printBox("BATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
	if s.Total > 0 {
		dimColor.Fprintf(p.out, "%.0f%% compliant\n", 100*float64(s.Compliant)/float64(s.Total))
	}
}
