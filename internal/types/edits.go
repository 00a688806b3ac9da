// Package types provides type definitions for structured data used throughout the strongpass system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "fmt"

// EditKind names a single-character edit.
type EditKind string

// Edit kinds
const (
	EditInsert  EditKind = "insert"
	EditDelete  EditKind = "delete"
	EditReplace EditKind = "replace"
)

// Edit represents one applied single-character edit
type Edit struct {
	Kind     EditKind `json:"kind"`
	Offset   int      `json:"offset"`             // Rune offset in the password before the edit
	Char     string   `json:"char,omitempty"`     // Inserted or replacement character
	Previous string   `json:"previous,omitempty"` // Deleted or replaced character
	Reason   string   `json:"reason"`             // Violation type the edit targets
}

func (e Edit) String() string {
	switch e.Kind {
	case EditInsert:
		return fmt.Sprintf("insert %q at %d (%s)", e.Char, e.Offset, e.Reason)
	case EditDelete:
		return fmt.Sprintf("delete %q at %d (%s)", e.Previous, e.Offset, e.Reason)
	default:
		return fmt.Sprintf("replace %q with %q at %d (%s)", e.Previous, e.Char, e.Offset, e.Reason)
	}
}
