package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// IPF prices an inpatient psychiatric facility claim from DRG's final DRG
// code, the claim's stay dates and length of stay, and the facility's IPSF row.
type IPF struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *IPF) Name() string { return "ipf" }

func (m *IPF) Dependencies() []string { return []string{"drg"} }

func (m *IPF) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for IPF pricing")
	}
	return nil
}

func (m *IPF) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	drgOut, ok := upstream["drg"].(claim.DRGOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "ipf", Upstream: "drg"}
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
		"drg":            drgOut.FinalDRG,
		"length_of_stay": c.LengthOfStay,
		"admit_date":     engine.MarshalDate(coalesceDate(c.AdmitDate, c.FromDate)),
		"thru_date":      engine.MarshalDate(c.ThruDate),
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}
	return claim.IPFOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}

func coalesceDate(d *claim.Date, fallback claim.Date) claim.Date {
	if d != nil {
		return *d
	}
	return fallback
}
