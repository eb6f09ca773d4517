package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// LTCH prices a long-term care hospital claim against DRG's assigned weight,
// applying the short-stay-outlier rules that distinguish LTCH from acute IPPS.
type LTCH struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *LTCH) Name() string { return "ltch" }

func (m *LTCH) Dependencies() []string { return []string{"drg"} }

func (m *LTCH) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for LTCH pricing")
	}
	return nil
}

func (m *LTCH) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	drgOut, ok := upstream["drg"].(claim.DRGOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "ltch", Upstream: "drg"}
	}

	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	row, err := m.Providers.FindIPSF(ctx, c.BillingProvider.OtherID, c.ThruDate.Time)
	if err != nil {
		return nil, err
	}

	req := engine.Request{
		"drg":             drgOut.FinalDRG,
		"relative_weight": drgOut.RelativeWeight.Float64(),
		"length_of_stay":  c.LengthOfStay,
		"covered_charges": sumCharges(c.LineItems).Charge(),
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}
	return claim.LTCHOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}
