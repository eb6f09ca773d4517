package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// HHA prices a home-health episode against HHAG's assigned HIPPS code.
type HHA struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *HHA) Name() string { return "hha" }

func (m *HHA) Dependencies() []string { return []string{"hhag"} }

func (m *HHA) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for HHA pricing")
	}
	return nil
}

func (m *HHA) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	hhagOut, ok := upstream["hhag"].(claim.HHAGOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "hha", Upstream: "hhag"}
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
		"hipps_code": hhagOut.HIPPSCode,
		"case_mix":   hhagOut.CaseMix,
		"from_date":  engine.MarshalDate(c.FromDate),
		"thru_date":  engine.MarshalDate(c.ThruDate),
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}
	return claim.HHAOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}
