// Package types provides type definitions for structured data used throughout the strongpass system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// PolicySnapshot records the policy a report was produced under
type PolicySnapshot struct {
	MinLength int `json:"min_length"`
	MaxLength int `json:"max_length"`
	MaxRepeat int `json:"max_repeat"`
}

// Report represents the evaluation of one password
type Report struct {
	Index        int         `json:"index"`
	Input        string      `json:"input"`
	Compliant    bool        `json:"compliant"`
	Violations   []Violation `json:"violations"`
	Steps        int         `json:"steps"`         // Edits applied by the greedy planner
	Minimum      int         `json:"minimum"`       // Closed-form minimum edit count
	Repaired     string      `json:"repaired"`      // Compliant password produced by the planner
	EditDistance int         `json:"edit_distance"` // Levenshtein distance between input and repaired
	Edits        []Edit      `json:"edits,omitempty"`
}

// BatchSummary aggregates a batch run
type BatchSummary struct {
	Total        int `json:"total"`
	Compliant    int `json:"compliant"`
	TotalSteps   int `json:"total_steps"`
	TotalMinimum int `json:"total_minimum"`
}

// BatchReport represents the result of evaluating a list of passwords
type BatchReport struct {
	RunID   string         `json:"run_id"`
	Policy  PolicySnapshot `json:"policy"`
	Results []Report       `json:"results"`
	Summary BatchSummary   `json:"summary"`
}
