package claim

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money is a fixed-point decimal carried as millionths of a unit,
// giving 6 fractional digits of precision as required for module output
// amounts, without the binary rounding error of float64.
type Money struct {
	microUnits int64 // value * 1_000_000
}

const moneyScale = 1_000_000

// NewMoney builds a Money from a float64. Used at claim-construction time for
// values already known to be exact (e.g. literal test fixtures); callers
// reading untrusted text should use ParseMoney instead.
func NewMoney(f float64) Money {
	return Money{microUnits: int64(math.Round(f * moneyScale))}
}

// ParseMoney parses a decimal string into a Money value.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Money{}, fmt.Errorf("claim: invalid decimal amount %q: %w", s, err)
	}
	return NewMoney(f), nil
}

// Float64 returns the value as a float64, for engine boundaries that require one.
func (m Money) Float64() float64 {
	return float64(m.microUnits) / moneyScale
}

// Cents returns the value rounded to the nearest whole cent, as used by the
// value-code amount wire format (cents in a 9-digit zero-padded string).
func (m Money) Cents() int64 {
	return int64(math.Round(float64(m.microUnits) / (moneyScale / 100)))
}

// String formats the value with 6 fractional digits, matching the "at least
// 6 fractional digits" rule for module output amounts.
func (m Money) String() string {
	sign := ""
	v := m.microUnits
	if v < 0 {
		sign = "-"
		v = -v
	}
	whole := v / moneyScale
	frac := v % moneyScale
	return fmt.Sprintf("%s%d.%06d", sign, whole, frac)
}

// Charge formats the value with exactly 2 fractional digits, matching the
// engine charge wire format ("%.2f").
func (m Money) Charge() string {
	return fmt.Sprintf("%.2f", m.Float64())
}

// MarshalJSON emits the decimal string form.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts either a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*m = Money{}
		return nil
	}
	parsed, err := ParseMoney(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
