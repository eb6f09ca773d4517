package modules

import (
	"context"
	"testing"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/refdata"
	"github.com/cms-pricing/orchestrator/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ipsfClaim(thru time.Time) *claim.Claim {
	return &claim.Claim{
		ThruDate:        claim.NewDate(thru),
		LengthOfStay:    4,
		BillType:        "111",
		BillingProvider: claim.Provider{OtherID: "123456"},
		LineItems:       []claim.LineItem{{Charges: claim.NewMoney(1000)}},
	}
}

func TestIPPSProcessUsesUpstreamDRGAndProviderRow(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := ipsfClaim(thru)
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("IPPS", engine.Response{"return_code": "00", "total_payment": 5432.10})
	providers := &fakeProviderLookup{ipsf: map[string]refdata.ProviderRow{
		"123456": {CCN: "123456", WageIndex: 1.15},
	}}

	m := &IPPS{Dispatcher: singleVersionDispatcher("ipps_pricer", ver, dom), Providers: providers}
	require.NoError(t, m.Validate(c))

	drgOut := claim.DRGOutput{FinalDRG: "291", RelativeWeight: claim.NewMoney(1.5)}
	out, err := m.Process(context.Background(), c, map[string]any{"drg": drgOut})
	require.NoError(t, err)

	ippsOut := out.(claim.IPPSOutput)
	assert.Equal(t, "00", ippsOut.ReturnCode)
	assert.InDelta(t, 5432.10, ippsOut.TotalPayment.Float64(), 0.001)
	assert.Equal(t, "291", fe.lastReq["drg"])
	assert.InDelta(t, 1.15, fe.lastReq["wage_index"].(float64), 0.0001)
}

func TestIPPSProcessWiresDiagnosesConditionCodesNDCsAndSeverity(t *testing.T) {
	thru := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	c := ipsfClaim(thru)
	c.PrincipalDiagnosis = claim.NewPrincipalDiagnosis("A021", claim.POAYes)
	c.AdmitDiagnosis = &claim.DiagnosisCode{Code: "I82411"}
	c.SecondaryDiagnoses = []claim.DiagnosisCode{claim.NewSecondaryDiagnosis("Z059", claim.POAYes)}
	c.ConditionCodes = []string{"A1"}
	c.NonCoveredDays = 1
	c.LineItems = []claim.LineItem{
		{Charges: claim.NewMoney(1000), NDC: "12345678901", NDCUnits: claim.NewMoney(2)},
	}
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("IPPS", engine.Response{"return_code": "00", "total_payment": 100.0})
	providers := &fakeProviderLookup{ipsf: map[string]refdata.ProviderRow{
		"123456": {CCN: "123456", WageIndex: 1.0},
	}}

	m := &IPPS{Dispatcher: singleVersionDispatcher("ipps_pricer", ver, dom), Providers: providers}
	require.NoError(t, m.Validate(c))

	drgOut := claim.DRGOutput{
		FinalDRG:        "291",
		RelativeWeight:  claim.NewMoney(1.5),
		InitialMDC:      "05",
		FinalMDC:        "05",
		InitialSeverity: "2",
		FinalSeverity:   "3",
	}
	_, err := m.Process(context.Background(), c, map[string]any{"drg": drgOut})
	require.NoError(t, err)

	assert.Equal(t, []string{"A021", "I82411", "Z059"}, fe.lastReq["diagnosis_codes"])
	assert.Equal(t, []string{"A1"}, fe.lastReq["condition_codes"])
	assert.Equal(t, 3, fe.lastReq["covered_days"])
	assert.Equal(t, "05", fe.lastReq["final_mdc"])
	assert.Equal(t, "3", fe.lastReq["final_severity"])

	ndcs := fe.lastReq["ndcs"].([]engine.Request)
	require.Len(t, ndcs, 1)
	assert.Equal(t, "12345678901", ndcs[0]["ndc"])
}

func TestIPPSValidateRejectsNonCoveredDaysExceedingLengthOfStay(t *testing.T) {
	c := ipsfClaim(time.Now())
	c.NonCoveredDays = c.LengthOfStay + 1

	m := &IPPS{}
	err := m.Validate(c)
	require.Error(t, err)
	var ve *claimerr.ValidationError
	require.ErrorAs(t, err, &ve)
}

func TestIPPSProcessFailsWithoutUpstreamDRG(t *testing.T) {
	m := &IPPS{}
	_, err := m.Process(context.Background(), ipsfClaim(time.Now()), nil)
	require.Error(t, err)
	var up *claimerr.UpstreamFailedError
	require.ErrorAs(t, err, &up)
	assert.Equal(t, "drg", up.Upstream)
}
