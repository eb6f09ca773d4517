package modules

import (
	"context"
	"testing"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/refdata"
	"github.com/cms-pricing/orchestrator/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPFProcessUsesUpstreamDRG(t *testing.T) {
	thru := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	c := &claim.Claim{ThruDate: claim.NewDate(thru), LengthOfStay: 6, BillingProvider: claim.Provider{OtherID: "334455"}}
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("IPF", engine.Response{"return_code": "00", "total_payment": 980})
	providers := &fakeProviderLookup{ipsf: map[string]refdata.ProviderRow{"334455": {CCN: "334455"}}}
	m := &IPF{Dispatcher: singleVersionDispatcher("ipf_pricer", ver, dom), Providers: providers}
	require.NoError(t, m.Validate(c))

	drgOut := claim.DRGOutput{FinalDRG: "885"}
	out, err := m.Process(context.Background(), c, map[string]any{"drg": drgOut})
	require.NoError(t, err)
	assert.Equal(t, "885", fe.lastReq["drg"])
	assert.InDelta(t, 980, out.(claim.IPFOutput).TotalPayment.Float64(), 0.001)
}
