// Package money provides a fixed-point monetary value object.
//
// The ledger works in a single implicit currency, so Money carries no
// currency code. Invariants:
//   - Amount is stored as an integer count of minor units (scale 2).
//   - Arithmetic never loses precision; parsing rejects more than two
//     decimal places rather than rounding.
package money

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidAmount is returned when a decimal string cannot be parsed into
// a scale-2 amount.
var ErrInvalidAmount = fmt.Errorf("invalid amount")

// Money is a fixed-point monetary amount with two decimal places.
// The zero value is 0.00.
type Money struct {
	minor int64
}

// FromMinor builds a Money from a count of minor units (cents).
func FromMinor(minor int64) Money {
	return Money{minor: minor}
}

// Zero is the 0.00 amount.
func Zero() Money {
	return Money{}
}

// Parse converts a decimal string such as "100", "100.5" or "100.50" into a
// Money. More than two fractional digits, empty input, or stray characters
// fail with ErrInvalidAmount.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	neg := false
	if s[0] == '-' {
		neg = true
		s = s[1:]
	}
	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
	}
	// ParseInt accepts a leading sign, which would let "1.-5" or "--1"
	// through as valid amounts; both parts must be bare digits.
	if whole == "" || len(frac) > 2 || !digits(whole) || !digits(frac) {
		return Money{}, ErrInvalidAmount
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	cents64, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	minor := units*100 + cents64
	if neg {
		minor = -minor
	}
	return Money{minor: minor}, nil
}

func digits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// Minor returns the amount as a count of minor units.
func (m Money) Minor() int64 { return m.minor }

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{minor: m.minor + other.minor}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{minor: m.minor - other.minor}
}

// IsZero reports whether the amount is exactly 0.00.
func (m Money) IsZero() bool { return m.minor == 0 }

// IsPositive reports whether the amount is strictly greater than zero.
func (m Money) IsPositive() bool { return m.minor > 0 }

// IsNegative reports whether the amount is strictly less than zero.
func (m Money) IsNegative() bool { return m.minor < 0 }

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool { return m.minor < other.minor }

// String formats the amount as a decimal with two fractional digits.
func (m Money) String() string {
	minor := m.minor
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

// MarshalJSON encodes the amount as a decimal string, keeping persisted
// event payloads readable and scale-exact.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(m.String())), nil
}

// UnmarshalJSON accepts either a quoted decimal string or a bare JSON number.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := string(data)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
