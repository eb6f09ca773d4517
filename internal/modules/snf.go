package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// SNF prices a skilled-nursing-facility claim directly from its revenue-code
// lines; unlike IPF/LTCH it needs no DRG weight, the resource group is
// carried on the claim's line items themselves (HIPPS in the HCPCS field of
// the RUG revenue-code line).
type SNF struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *SNF) Name() string { return "snf" }

func (m *SNF) Dependencies() []string { return nil }

func (m *SNF) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for SNF pricing")
	}
	if hippsLine(c) == nil {
		return claimerr.NewValidationError("line_items", "requires a revenue code 0022 HIPPS line for SNF pricing")
	}
	return nil
}

func (m *SNF) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	row, err := m.Providers.FindIPSF(ctx, c.BillingProvider.OtherID, c.ThruDate.Time)
	if err != nil {
		return nil, err
	}

	line := hippsLine(c)
	req := engine.Request{
		"hipps_code":       line.HCPCS,
		"covered_days":     c.LengthOfStay - c.NonCoveredDays,
		"non_covered_days": c.NonCoveredDays,
	}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}
	return claim.SNFOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}

// snfHIPPSRevenueCode is the revenue code carrying the RUG/PDPM HIPPS code
// on a skilled-nursing claim.
const snfHIPPSRevenueCode = "0022"

func hippsLine(c *claim.Claim) *claim.LineItem {
	for i := range c.LineItems {
		if c.LineItems[i].RevenueCode == snfHIPPSRevenueCode {
			return &c.LineItems[i]
		}
	}
	return nil
}
