// Package version implements the DRG fiscal-year rule, the version-string
// increment rule, and the engine-version probing/retention logic that load
// the correct vendor engine generation for a given claim.
package version

import (
	"fmt"

	"github.com/cms-pricing/orchestrator/internal/claim"
)

// DRGFiscalYearVersion computes the DRG version string for a claim's
// thru_date, following the fiscal-calendar rule: v = year(thru_date)-1983;
// month >= 10 -> (v+1)+"0"; month in 4..9 -> v+"1"; month <= 3 -> (v-1)+"0".
func DRGFiscalYearVersion(thru claim.Date) string {
	y := thru.Time.Year()
	month := int(thru.Time.Month())
	v := y - 1983

	switch {
	case month >= 10:
		return fmt.Sprintf("%d0", v+1)
	case month >= 4:
		return fmt.Sprintf("%d1", v)
	default:
		return fmt.Sprintf("%d0", v-1)
	}
}

// NextVersion applies the "trailing 1 -> +9, trailing 0 -> +1" increment
// rule used to walk versions starting from a minimum (e.g. "400"):
// 400 -> 401 -> 410 -> 411 -> 420 -> 421 -> 430 -> ...
func NextVersion(version string) (string, error) {
	n := len(version)
	if n == 0 {
		return "", fmt.Errorf("version: empty version string")
	}
	trailing := version[n-1]
	var base int
	if _, err := fmt.Sscanf(version, "%d", &base); err != nil {
		return "", fmt.Errorf("version: invalid version string %q: %w", version, err)
	}
	switch trailing {
	case '1':
		return fmt.Sprintf("%d", base+9), nil
	case '0':
		return fmt.Sprintf("%d", base+1), nil
	default:
		return "", fmt.Errorf("version: version %q does not end in 0 or 1", version)
	}
}
