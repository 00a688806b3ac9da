// Package policy defines the strong password policy and its length bounds.
package policy

import "fmt"

// Error represents an invalid policy configuration
type Error struct {
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("policy error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("policy error: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}
