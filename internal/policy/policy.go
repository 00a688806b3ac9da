// Package policy defines the strong password policy and its length bounds.
package policy

import (
	"fmt"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// Default policy values.
const (
	DefaultMinLength = 6
	DefaultMaxLength = 20
	DefaultMaxRepeat = 2
)

// Policy holds the tunable parameters of the strong password rules.
// The required character classes (lowercase, uppercase, digit) are fixed.
type Policy struct {
	MinLength int `json:"min_length" yaml:"min_length" validate:"gte=3"`
	MaxLength int `json:"max_length" yaml:"max_length" validate:"gtefield=MinLength"`
	MaxRepeat int `json:"max_repeat" yaml:"max_repeat" validate:"gte=1"`
}

// Default returns the policy with the stock bounds: 6 to 20 characters and
// no run of three or more identical characters.
func Default() Policy {
	return Policy{
		MinLength: DefaultMinLength,
		MaxLength: DefaultMaxLength,
		MaxRepeat: DefaultMaxRepeat,
	}
}

// Validate checks the policy with the struct tags above.
// MinLength must be at least the number of required classes, otherwise a
// short password could need more classes than it has positions to trade.
func (p Policy) Validate() error {
	validate := validator.New()
	if err := validate.Struct(p); err != nil {
		return &Error{
			Message: fmt.Sprintf("invalid policy (min=%d max=%d repeat=%d)", p.MinLength, p.MaxLength, p.MaxRepeat),
			Cause:   err,
		}
	}
	return nil
}

// Window is the shortest run length that breaks the repeat rule.
func (p Policy) Window() int {
	return p.MaxRepeat + 1
}

// IsTooShort reports whether s has fewer characters than MinLength.
func (p Policy) IsTooShort(s string) bool {
	return p.BelowMin(utf8.RuneCountInString(s))
}

// IsTooLong reports whether s has more characters than MaxLength.
func (p Policy) IsTooLong(s string) bool {
	return p.AboveMax(utf8.RuneCountInString(s))
}

// BelowMin reports whether a length of n characters is under the minimum.
func (p Policy) BelowMin(n int) bool {
	return n < p.MinLength
}

// AboveMax reports whether a length of n characters is over the maximum.
func (p Policy) AboveMax(n int) bool {
	return n > p.MaxLength
}

func (p Policy) String() string {
	return fmt.Sprintf("length %d-%d, max repeat %d", p.MinLength, p.MaxLength, p.MaxRepeat)
}
