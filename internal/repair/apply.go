// Package repair turns an arbitrary string into a strong password with a
// greedy sequence of single-character edits.
package repair

import (
	"fmt"
	"unicode/utf8"

	"github.com/jonathan/strongpass/internal/types"
)

// apply performs a proposed edit on buf in place where possible.
func apply(buf []rune, edit types.Edit) []rune {
	switch edit.Kind {
	case types.EditInsert:
		r, _ := utf8.DecodeRuneInString(edit.Char)
		buf = append(buf, 0)
		copy(buf[edit.Offset+1:], buf[edit.Offset:])
		buf[edit.Offset] = r
	case types.EditDelete:
		buf = append(buf[:edit.Offset], buf[edit.Offset+1:]...)
	case types.EditReplace:
		r, _ := utf8.DecodeRuneInString(edit.Char)
		buf[edit.Offset] = r
	default:
		panic(fmt.Sprintf("repair: unknown edit kind %q", edit.Kind))
	}
	return buf
}

// Replay applies a recorded edit log to password and returns the result.
// Unlike the planner it trusts nothing: every edit is checked against the
// current buffer before it is applied.
func Replay(password string, edits []types.Edit) (string, error) {
	buf := []rune(password)

	for i, edit := range edits {
		if err := checkEdit(buf, edit); err != nil {
			return "", &ApplyError{
				Message: fmt.Sprintf("failed to apply %s edit at index %d", edit.Kind, i),
				Cause:   err,
			}
		}
		buf = apply(buf, edit)
	}

	return string(buf), nil
}

func checkEdit(buf []rune, edit types.Edit) error {
	switch edit.Kind {
	case types.EditInsert:
		if edit.Offset < 0 || edit.Offset > len(buf) {
			return fmt.Errorf("offset %d out of range [0, %d]", edit.Offset, len(buf))
		}
		return checkChar(edit.Char)
	case types.EditDelete, types.EditReplace:
		if edit.Offset < 0 || edit.Offset >= len(buf) {
			return fmt.Errorf("offset %d out of range [0, %d)", edit.Offset, len(buf))
		}
		if edit.Previous != "" && edit.Previous != string(buf[edit.Offset]) {
			return fmt.Errorf("expected %q at offset %d, found %q", edit.Previous, edit.Offset, string(buf[edit.Offset]))
		}
		if edit.Kind == types.EditReplace {
			return checkChar(edit.Char)
		}
		return nil
	default:
		return fmt.Errorf("unknown edit kind %q", edit.Kind)
	}
}

func checkChar(s string) error {
	if utf8.RuneCountInString(s) != 1 {
		return fmt.Errorf("edit character must be a single rune, got %q", s)
	}
	return nil
}
