package modules

import (
	"context"
	"strconv"
	"sync"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// homeSelfcareRoutine is the discharge-status fallback used whenever the
// claim's discharge status does not parse as an integer, matching
// drg_client.py's behavior of defaulting to "routine discharge to home"
// rather than rejecting the claim.
const homeSelfcareRoutine = "01"

// ICDConverter maps an ICD-10 code to its ICD-9 equivalent for claims
// processed in ICD-10 but graded against an ICD-9-era DRG version.
// Implementations always return the first candidate; mapped_dx_or_self and
// mapped_op_or_self in the original never consider alternates.
type ICDConverter interface {
	ConvertDiagnosis(code string) (string, bool)
	ConvertProcedure(code string) (string, bool)
}

// DRG groups a claim through the MS-DRG vendor engine, resolving the
// correct engine generation from the claim's thru_date and serializing
// reconfiguration against concurrent Process calls within one version.
type DRG struct {
	Dispatcher *version.Dispatcher
	Converter  ICDConverter // nil when no ICD-10->9 conversion is configured

	mu    sync.Mutex
	locks map[string]*version.ReconfigurationLock
}

func (m *DRG) Name() string { return "drg" }

func (m *DRG) Dependencies() []string { return nil }

func (m *DRG) Validate(c *claim.Claim) error {
	if c.PrincipalDiagnosis.Code == "" {
		return claimerr.NewValidationError("principal_diagnosis", "is required for DRG grouping")
	}
	return nil
}

func (m *DRG) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	req := m.buildRequest(c)
	lock := m.lockFor(dom.Version)

	var resp engine.Response
	err = lock.Process(func() error {
		var procErr error
		resp, procErr = dom.Process(ctx, "process", req)
		return procErr
	})
	if err != nil {
		return nil, err
	}

	return m.extractOutput(dom, resp), nil
}

func (m *DRG) lockFor(ver string) *version.ReconfigurationLock {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks == nil {
		m.locks = map[string]*version.ReconfigurationLock{}
	}
	lock, ok := m.locks[ver]
	if !ok {
		lock = version.NewReconfigurationLock("msdrg", ver)
		m.locks[ver] = lock
	}
	return lock
}

func (m *DRG) buildRequest(c *claim.Claim) engine.Request {
	req := engine.Request{}

	req["principal_diagnosis"] = engine.MarshalDiagnosisCode(m.mapDx(c, c.PrincipalDiagnosis.Code))
	req["principal_diagnosis_poa"] = string(claim.POAYes)

	if c.AdmitDiagnosis != nil {
		req["admitting_diagnosis"] = engine.MarshalDiagnosisCode(m.mapDx(c, c.AdmitDiagnosis.Code))
		req["admitting_diagnosis_poa"] = string(claim.POAYes)
	}

	secondaryCodes := make([]string, 0, len(c.SecondaryDiagnoses))
	secondaryPOA := make([]string, 0, len(c.SecondaryDiagnoses))
	for _, dx := range c.SecondaryDiagnoses {
		secondaryCodes = append(secondaryCodes, engine.MarshalDiagnosisCode(m.mapDx(c, dx.Code)))
		secondaryPOA = append(secondaryPOA, string(dx.POA))
	}
	req["secondary_diagnoses"] = secondaryCodes
	req["secondary_diagnoses_poa"] = secondaryPOA

	procedures := make([]string, 0, len(c.Procedures))
	for _, px := range c.Procedures {
		procedures = append(procedures, engine.MarshalDiagnosisCode(m.mapPx(c, px.Code)))
	}
	req["procedures"] = procedures

	req["sex"] = engine.MarshalSex(c.Demographics.Sex)
	setAgeFields(req, c)
	req["discharge_status"] = dischargeStatusOrDefault(c.Demographics.DischargeStatus)
	req["length_of_stay"] = c.LengthOfStay
	req["admit_date"] = admitDateOrThru(c)
	req["thru_date"] = engine.MarshalDate(c.ThruDate)

	return req
}

// setAgeFields applies the age rule: the claim's stated age in years when
// positive, else age in days from date-of-birth to from_date (floored at 0)
// with both the admit-day and discharge-day ages set, discharge computed as
// admit + length of stay.
func setAgeFields(req engine.Request, c *claim.Claim) {
	if c.Demographics.AgeInYears > 0 {
		req["age"] = engine.MarshalAge(c.Demographics.AgeInYears)
		return
	}
	admitDays := ageInDaysAtFromDate(c)
	req["age_days_admit"] = engine.MarshalAge(admitDays)
	req["age_days_discharge"] = engine.MarshalAge(admitDays + c.LengthOfStay)
}

// ageInDaysAtFromDate computes the patient's age in whole days as of the
// claim's from_date, matching calculate_age_in_days's use of the admission
// date as the reference point.
func ageInDaysAtFromDate(c *claim.Claim) int {
	if c.Demographics.DateOfBirth == nil {
		return 0
	}
	days := int(c.FromDate.Time.Sub(c.Demographics.DateOfBirth.Time).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

func admitDateOrThru(c *claim.Claim) string {
	if c.AdmitDate != nil {
		return engine.MarshalDate(*c.AdmitDate)
	}
	return engine.MarshalDate(c.FromDate)
}

func dischargeStatusOrDefault(status string) string {
	if _, err := strconv.Atoi(status); err != nil {
		return homeSelfcareRoutine
	}
	return engine.MarshalPatientStatus(status)
}

func (m *DRG) mapDx(c *claim.Claim, code string) string {
	if !c.ICDConversion || m.Converter == nil {
		return code
	}
	if mapped, ok := m.Converter.ConvertDiagnosis(code); ok {
		return mapped
	}
	return code
}

func (m *DRG) mapPx(c *claim.Claim, code string) string {
	if !c.ICDConversion || m.Converter == nil {
		return code
	}
	if mapped, ok := m.Converter.ConvertProcedure(code); ok {
		return mapped
	}
	return code
}

func (m *DRG) extractOutput(dom *engine.Domain, resp engine.Response) claim.DRGOutput {
	out := claim.DRGOutput{
		DRGVersion:      dom.Version,
		InitialDRG:      extractString(dom, resp, "initial_drg"),
		FinalDRG:        extractString(dom, resp, "final_drg"),
		InitialMDC:      extractString(dom, resp, "initial_mdc"),
		FinalMDC:        extractString(dom, resp, "final_mdc"),
		InitialSeverity: extractString(dom, resp, "initial_severity"),
		FinalSeverity:   extractString(dom, resp, "final_severity"),
		HACStatus:       extractString(dom, resp, "hac_status"),
		RelativeWeight:  extractMoney(dom, resp, "relative_weight"),
	}
	return out
}
