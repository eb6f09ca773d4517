package modules

import (
	"context"
	"testing"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDRGClaim(thru time.Time) *claim.Claim {
	return &claim.Claim{
		ID:                 "C1",
		FromDate:           claim.NewDate(thru.AddDate(0, 0, -5)),
		ThruDate:           claim.NewDate(thru),
		LengthOfStay:       5,
		PrincipalDiagnosis: claim.NewPrincipalDiagnosis("I509", claim.POAYes),
		SecondaryDiagnoses: []claim.DiagnosisCode{claim.NewSecondaryDiagnosis("E119", claim.POANo)},
		Demographics: claim.Demographics{
			DateOfBirth:     ptrDate(thru.AddDate(-70, 0, 0)),
			Sex:             "F",
			DischargeStatus: "01",
		},
		Modules: []string{"drg"},
	}
}

func ptrDate(t time.Time) *claim.Date {
	d := claim.NewDate(t)
	return &d
}

func TestDRGProcessBuildsRequestAndExtractsOutput(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := sampleDRGClaim(thru)
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("MSDRG", engine.Response{
		"initial_drg":     "291",
		"final_drg":       "291",
		"initial_mdc":     "05",
		"final_mdc":       "05",
		"hac_status":      "none",
		"relative_weight": 1.2345,
	})

	m := &DRG{Dispatcher: singleVersionDispatcher("msdrg", ver, dom)}
	require.NoError(t, m.Validate(c))

	out, err := m.Process(context.Background(), c, nil)
	require.NoError(t, err)

	drgOut := out.(claim.DRGOutput)
	assert.Equal(t, "291", drgOut.FinalDRG)
	assert.Equal(t, ver, drgOut.DRGVersion)
	assert.InDelta(t, 1.2345, drgOut.RelativeWeight.Float64(), 0.0001)

	assert.Equal(t, "I509", fe.lastReq["principal_diagnosis"])
	assert.Equal(t, string(claim.POAYes), fe.lastReq["principal_diagnosis_poa"])
	assert.Equal(t, "2", fe.lastReq["sex"])
}

func TestDRGAgeUsesYearsWhenPositive(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := sampleDRGClaim(thru)
	c.Demographics.AgeInYears = 65
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("MSDRG", engine.Response{"final_drg": "291"})
	m := &DRG{Dispatcher: singleVersionDispatcher("msdrg", ver, dom)}

	_, err := m.Process(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, "065", fe.lastReq["age"])
	assert.NotContains(t, fe.lastReq, "age_days_admit")
	assert.NotContains(t, fe.lastReq, "age_days_discharge")
}

func TestDRGAgeFallsBackToDaysFromDateOfBirth(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := sampleDRGClaim(thru)
	c.Demographics.AgeInYears = 0
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("MSDRG", engine.Response{"final_drg": "291"})
	m := &DRG{Dispatcher: singleVersionDispatcher("msdrg", ver, dom)}

	_, err := m.Process(context.Background(), c, nil)
	require.NoError(t, err)

	wantAdmit := int(c.FromDate.Time.Sub(c.Demographics.DateOfBirth.Time).Hours() / 24)
	assert.Equal(t, engine.MarshalAge(wantAdmit), fe.lastReq["age_days_admit"])
	assert.Equal(t, engine.MarshalAge(wantAdmit+c.LengthOfStay), fe.lastReq["age_days_discharge"])
	assert.NotContains(t, fe.lastReq, "age")
}

func TestDRGValidateRequiresPrincipalDiagnosis(t *testing.T) {
	c := sampleDRGClaim(time.Now())
	c.PrincipalDiagnosis = claim.DiagnosisCode{}

	m := &DRG{}
	err := m.Validate(c)
	require.Error(t, err)
	var ve *claimerr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestDRGDischargeStatusFallsBackWhenNotNumeric(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := sampleDRGClaim(thru)
	c.Demographics.DischargeStatus = "unknown"
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("MSDRG", engine.Response{"final_drg": "291"})
	m := &DRG{Dispatcher: singleVersionDispatcher("msdrg", ver, dom)}

	_, err := m.Process(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, homeSelfcareRoutine, fe.lastReq["discharge_status"])
}

func TestDRGReturnsEngineBusyAfterReconfigurationContention(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := sampleDRGClaim(thru)
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, _ := domainWith("MSDRG", engine.Response{"final_drg": "291"})
	m := &DRG{Dispatcher: singleVersionDispatcher("msdrg", ver, dom)}

	lock := m.lockFor(ver).WithRetryPolicy(2, time.Millisecond)
	m.locks[ver] = lock

	release := make(chan struct{})
	held := make(chan struct{})
	go lock.Reconfigure(func() error {
		close(held)
		<-release
		return nil
	})
	<-held
	defer close(release)

	_, err := m.Process(context.Background(), c, nil)
	require.Error(t, err)
	var busy *claimerr.EngineBusyError
	require.ErrorAs(t, err, &busy)
}
