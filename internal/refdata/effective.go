// Package refdata implements the time-indexed reference-data store: the
// inpatient (IPSF) and outpatient (OPSF) provider tables and the ZIP9
// locality table, each looked up by the "effective row" rule.
package refdata

import "time"

// OpenTermination is the sentinel used in place of a blank or zero
// termination date, so open-ended rows always compare as active.
var OpenTermination = time.Date(2099, time.December, 31, 0, 0, 0, 0, time.UTC)

// EffectiveRow is anything carrying an effective/termination window, used to
// select the row with the greatest effective_date <= as-of-date and
// termination_date >= as-of-date.
type EffectiveRow interface {
	EffectiveDate() time.Time
	TerminationDate() time.Time
}

// NormalizeTermination replaces a blank/zero termination date with the open
// sentinel, per the reference-row selection rule.
func NormalizeTermination(t time.Time) time.Time {
	if t.IsZero() {
		return OpenTermination
	}
	return t
}

// SelectEffective picks the effective row out of candidates for the given
// as-of date: the greatest effective_date <= asOf among rows whose
// (normalized) termination_date >= asOf. Returns false if none qualify.
func SelectEffective[T EffectiveRow](candidates []T, asOf time.Time) (T, bool) {
	var best T
	found := false
	for _, c := range candidates {
		eff := c.EffectiveDate()
		term := NormalizeTermination(c.TerminationDate())
		if eff.After(asOf) || term.Before(asOf) {
			continue
		}
		if !found || eff.After(best.EffectiveDate()) {
			best = c
			found = true
		}
	}
	return best, found
}
