// Package repair turns an arbitrary string into a strong password with a
// greedy sequence of single-character edits.
package repair

import "fmt"

// ApplyError represents an edit that cannot be applied to the current password
// (offset out of range, mismatched character, unknown kind)
type ApplyError struct {
	Message string
	Cause   error
}

func (e *ApplyError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("repair apply error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("repair apply error: %s", e.Message)
}

func (e *ApplyError) Unwrap() error {
	return e.Cause
}
