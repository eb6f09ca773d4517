package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// hospiceRoutineHomeCareRevenueCode is the revenue code identifying the
// routine-home-care level of care, the default when a claim carries no
// other hospice level-of-care line.
const hospiceRoutineHomeCareRevenueCode = "0651"

// Hospice prices a hospice claim from its level-of-care lines, each day's
// level driving a distinct daily rate; no grouper runs upstream of it.
type Hospice struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *Hospice) Name() string { return "hospice" }

func (m *Hospice) Dependencies() []string { return nil }

func (m *Hospice) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for hospice pricing")
	}
	return nil
}

func (m *Hospice) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	row, err := m.Providers.FindIPSF(ctx, c.BillingProvider.OtherID, c.ThruDate.Time)
	if err != nil {
		return nil, err
	}

	levels := hospiceLevelLines(c)
	req := engine.Request{"levels_of_care": levels}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}
	return claim.HospiceOutput{PricerOutput: extractPricerOutput(dom, resp)}, nil
}

func hospiceLevelLines(c *claim.Claim) []engine.Request {
	var lines []engine.Request
	for _, li := range c.LineItems {
		if li.RevenueCode == "" {
			continue
		}
		lines = append(lines, engine.Request{
			"revenue_code": li.RevenueCode,
			"service_date": engine.MarshalDate(li.ServiceDate),
			"units":        engine.MarshalUnits(li.Units),
		})
	}
	if len(lines) == 0 {
		lines = append(lines, engine.Request{
			"revenue_code": hospiceRoutineHomeCareRevenueCode,
			"service_date": engine.MarshalDate(c.FromDate),
			"units":        engine.MarshalUnits(c.LengthOfStay),
		})
	}
	return lines
}
