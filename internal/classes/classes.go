// Package classes checks which of the required character classes a password covers.
//
// Classification is restricted to ASCII: a-z is lowercase, A-Z is uppercase
// and 0-9 is a digit. Every other rune, including non-ASCII letters, has no
// class and never contributes to coverage.
package classes

// Class is a required character class.
type Class uint8

const (
	None Class = iota
	Lower
	Upper
	Digit
)

// Required lists the classes a strong password must contain, in the order
// fill characters are chosen.
var Required = []Class{Lower, Digit, Upper}

func (c Class) String() string {
	switch c {
	case Lower:
		return "lowercase"
	case Upper:
		return "uppercase"
	case Digit:
		return "digit"
	default:
		return "none"
	}
}

// Of returns the class of r.
func Of(r rune) Class {
	switch {
	case r >= 'a' && r <= 'z':
		return Lower
	case r >= 'A' && r <= 'Z':
		return Upper
	case r >= '0' && r <= '9':
		return Digit
	default:
		return None
	}
}

// Coverage records which required classes are present.
type Coverage struct {
	HasLower bool
	HasUpper bool
	HasDigit bool
}

// CoverageOf scans s once and records every class it contains.
func CoverageOf(s []rune) Coverage {
	var c Coverage
	for _, r := range s {
		c.add(Of(r))
		if c.Satisfied() {
			break
		}
	}
	return c
}

// CoverageOfString is CoverageOf for a string.
func CoverageOfString(s string) Coverage {
	var c Coverage
	for _, r := range s {
		c.add(Of(r))
		if c.Satisfied() {
			break
		}
	}
	return c
}

func (c *Coverage) add(cl Class) {
	switch cl {
	case Lower:
		c.HasLower = true
	case Upper:
		c.HasUpper = true
	case Digit:
		c.HasDigit = true
	}
}

// Has reports whether cl is present. None is never present.
func (c Coverage) Has(cl Class) bool {
	switch cl {
	case Lower:
		return c.HasLower
	case Upper:
		return c.HasUpper
	case Digit:
		return c.HasDigit
	default:
		return false
	}
}

// Satisfied reports whether all three classes are present.
func (c Coverage) Satisfied() bool {
	return c.HasLower && c.HasUpper && c.HasDigit
}

// Missing counts the absent classes.
func (c Coverage) Missing() int {
	return len(c.MissingClasses())
}

// MissingClasses returns the absent classes in Required order.
func (c Coverage) MissingClasses() []Class {
	var missing []Class
	for _, cl := range Required {
		if !c.Has(cl) {
			missing = append(missing, cl)
		}
	}
	return missing
}

// HasLower reports whether s contains a lowercase letter.
func HasLower(s string) bool {
	return contains(s, Lower)
}

// HasUpper reports whether s contains an uppercase letter.
func HasUpper(s string) bool {
	return contains(s, Upper)
}

// HasDigit reports whether s contains a digit.
func HasDigit(s string) bool {
	return contains(s, Digit)
}

// Satisfies reports whether s contains all three classes.
func Satisfies(s string) bool {
	return CoverageOfString(s).Satisfied()
}

func contains(s string, cl Class) bool {
	for _, r := range s {
		if Of(r) == cl {
			return true
		}
	}
	return false
}
