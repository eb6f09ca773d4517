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

func TestLTCHProcessUsesUpstreamDRGWeight(t *testing.T) {
	thru := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &claim.Claim{
		ThruDate:        claim.NewDate(thru),
		LengthOfStay:    25,
		BillingProvider: claim.Provider{OtherID: "998877"},
		LineItems:       []claim.LineItem{{Charges: claim.NewMoney(20000)}},
	}
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, fe := domainWith("LTCH", engine.Response{"return_code": "00", "total_payment": 15000})
	providers := &fakeProviderLookup{ipsf: map[string]refdata.ProviderRow{"998877": {CCN: "998877"}}}
	m := &LTCH{Dispatcher: singleVersionDispatcher("ltch_pricer", ver, dom), Providers: providers}
	require.NoError(t, m.Validate(c))

	drgOut := claim.DRGOutput{FinalDRG: "207", RelativeWeight: claim.NewMoney(2.9)}
	out, err := m.Process(context.Background(), c, map[string]any{"drg": drgOut})
	require.NoError(t, err)
	assert.InDelta(t, 2.9, fe.lastReq["relative_weight"].(float64), 0.0001)
	assert.InDelta(t, 15000, out.(claim.LTCHOutput).TotalPayment.Float64(), 0.001)
}
