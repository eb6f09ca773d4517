package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// IRF prices an inpatient-rehab claim against IRFG's assigned case-mix group.
type IRF struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *IRF) Name() string { return "irf" }

func (m *IRF) Dependencies() []string { return []string{"irfg"} }

func (m *IRF) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for IRF pricing")
	}
	return nil
}

func (m *IRF) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	irfgOut, ok := upstream["irfg"].(claim.IRFGOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "irf", Upstream: "irfg"}
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
		"cmg":              irfgOut.CMG,
		"tier_comorbidity": irfgOut.TierComorbidity,
		"length_of_stay":   c.LengthOfStay,
		"covered_charges":  sumCharges(c.LineItems).Charge(),
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}
	return claim.IRFOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}
