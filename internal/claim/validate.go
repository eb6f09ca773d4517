package claim

import (
	"strconv"

	"github.com/cms-pricing/orchestrator/internal/claimerr"
)

// Validate checks the structural invariants that must hold before any module
// or engine call is attempted. It never touches reference data or an engine.
func (c *Claim) Validate() *claimerr.ValidationError {
	if c.PrincipalDiagnosis.Code == "" && requiresGrouping(c.Modules) {
		return claimerr.NewValidationError("principal_diagnosis", "is required for grouping modules")
	}

	if c.ThruDate.Time.Before(c.FromDate.Time) {
		return claimerr.NewValidationError("thru_date", "must not be before from_date")
	}

	if c.LengthOfStay < c.NonCoveredDays {
		return claimerr.NewValidationError("length_of_stay", "must be greater than or equal to non_covered_days")
	}

	if !c.PrincipalDiagnosis.POA.Valid() {
		return claimerr.NewValidationError("principal_diagnosis.poa", "unknown POA letter")
	}
	if c.AdmitDiagnosis != nil && !c.AdmitDiagnosis.POA.Valid() {
		return claimerr.NewValidationError("admit_diagnosis.poa", "unknown POA letter")
	}
	for i, d := range c.SecondaryDiagnoses {
		if !d.POA.Valid() {
			return claimerr.NewValidationError("secondary_diagnoses", "unknown POA letter at index "+strconv.Itoa(i))
		}
	}

	for _, m := range c.Modules {
		if !KnownModules[m] {
			return claimerr.NewValidationError("modules", "unknown module name "+m)
		}
	}

	return nil
}

// requiresGrouping reports whether any requested module needs a principal diagnosis.
func requiresGrouping(modules []string) bool {
	for _, m := range modules {
		switch m {
		case "drg", "mce", "ioce", "ipps", "opps", "ipf", "ltch", "snf", "esrd", "fqhc":
			return true
		}
	}
	return false
}
