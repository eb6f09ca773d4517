package engine

import (
	"fmt"
	"strings"

	"github.com/cms-pricing/orchestrator/internal/claim"
)

// MarshalDate renders a Date as the fixed 8-digit YYYYMMDD engine boundary format.
func MarshalDate(d claim.Date) string {
	return d.CompactFormat()
}

// MarshalAge renders an age in years/days as a 3-digit zero-padded string.
func MarshalAge(age int) string {
	if age < 0 {
		age = 0
	}
	if age > 999 {
		age = 999
	}
	return fmt.Sprintf("%03d", age)
}

// MarshalSex maps {M* -> "1", F* -> "2", else -> "0"} per the editor's
// sex code: "0" unknown, "1" male, "2" female.
func MarshalSex(sex string) string {
	sex = strings.ToUpper(strings.TrimSpace(sex))
	switch {
	case strings.HasPrefix(sex, "M"):
		return "1"
	case strings.HasPrefix(sex, "F"):
		return "2"
	default:
		return "0"
	}
}

// MarshalBillType pads or truncates to exactly 3 chars, padding with '0'.
func MarshalBillType(billType string) string {
	return padOrTruncate(billType, 3, '0')
}

// MarshalPatientStatus left-pads or truncates to exactly 2 chars.
func MarshalPatientStatus(status string) string {
	return leftPadOrTruncate(status, 2, '0')
}

// MarshalUnits renders line-item units as a 9-digit zero-padded string,
// defaulting to "000000001" when units is 0 (unset).
func MarshalUnits(units int) string {
	if units <= 0 {
		units = 1
	}
	return fmt.Sprintf("%09d", units)
}

// MarshalCharge renders a Money value with the fixed-point "%.2f" charge format.
func MarshalCharge(m claim.Money) string {
	return m.Charge()
}

// MarshalValueCodeAmount renders a Money value as cents in a 9-digit
// zero-padded string.
func MarshalValueCodeAmount(m claim.Money) string {
	return fmt.Sprintf("%09d", m.Cents())
}

// MarshalDiagnosisCode strips periods from an ICD code, preserving all other
// characters.
func MarshalDiagnosisCode(code string) string {
	return strings.ReplaceAll(code, ".", "")
}

// MarshalNPI truncates an NPI to at most 13 chars.
func MarshalNPI(npi string) string {
	return truncate(npi, 13)
}

// MarshalCCN truncates a CCN (other_id) to at most 6 chars.
func MarshalCCN(ccn string) string {
	return truncate(ccn, 6)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func padOrTruncate(s string, n int, pad byte) string {
	if len(s) > n {
		return s[:n]
	}
	if len(s) == n {
		return s
	}
	return s + strings.Repeat(string(pad), n-len(s))
}

func leftPadOrTruncate(s string, n int, pad byte) string {
	if len(s) > n {
		return s[len(s)-n:]
	}
	if len(s) == n {
		return s
	}
	return strings.Repeat(string(pad), n-len(s)) + s
}
