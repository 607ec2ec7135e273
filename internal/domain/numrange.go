package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrMalformedRange = errors.New("malformed numeric range")

// NumRange is a half-open interval [Min, Max) over decimals. A nil bound is
// unbounded. The text form follows the Postgres numrange literal with an empty
// string for an unbounded endpoint, e.g. "[0,100)", "[100,)".
type NumRange struct {
	Min *decimal.Decimal
	Max *decimal.Decimal
}

func ParseNumRange(s string) (NumRange, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || s[0] != '[' || s[len(s)-1] != ')' {
		return NumRange{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}
	parts := strings.SplitN(s[1:len(s)-1], ",", 2)
	if len(parts) != 2 {
		return NumRange{}, fmt.Errorf("%w: %q", ErrMalformedRange, s)
	}

	var r NumRange
	if lo := strings.TrimSpace(parts[0]); lo != "" {
		d, err := decimal.NewFromString(lo)
		if err != nil {
			return NumRange{}, fmt.Errorf("%w: lower bound %q", ErrMalformedRange, lo)
		}
		r.Min = &d
	}
	if hi := strings.TrimSpace(parts[1]); hi != "" {
		d, err := decimal.NewFromString(hi)
		if err != nil {
			return NumRange{}, fmt.Errorf("%w: upper bound %q", ErrMalformedRange, hi)
		}
		r.Max = &d
	}
	if r.Min != nil && r.Max != nil && r.Max.LessThanOrEqual(*r.Min) {
		return NumRange{}, fmt.Errorf("%w: empty range %q", ErrMalformedRange, s)
	}
	return r, nil
}

func (r NumRange) String() string {
	var lo, hi string
	if r.Min != nil {
		lo = r.Min.String()
	}
	if r.Max != nil {
		hi = r.Max.String()
	}
	return "[" + lo + "," + hi + ")"
}

// Contains reports whether v falls inside the half-open interval.
func (r NumRange) Contains(v decimal.Decimal) bool {
	if r.Min != nil && v.LessThan(*r.Min) {
		return false
	}
	if r.Max != nil && !v.LessThan(*r.Max) {
		return false
	}
	return true
}
