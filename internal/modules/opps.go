package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// OPPS prices an outpatient claim's IOCE-edited lines under the outpatient
// prospective payment system.
type OPPS struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *OPPS) Name() string { return "opps" }

func (m *OPPS) Dependencies() []string { return []string{"ioce"} }

func (m *OPPS) Validate(c *claim.Claim) error {
	if c.BillingProvider.OtherID == "" {
		return claimerr.NewValidationError("billing_provider.other_id", "is required for OPPS pricing")
	}
	return nil
}

func (m *OPPS) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	ioceOut, ok := upstream["ioce"].(claim.IOCEOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "opps", Upstream: "ioce"}
	}

	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	row, err := m.Providers.FindOPSF(ctx, c.BillingProvider.OtherID, c.ThruDate.Time)
	if err != nil {
		return nil, err
	}

	lines := make([]engine.Request, len(ioceOut.Lines))
	for i, l := range ioceOut.Lines {
		lines[i] = engine.Request{
			"line_number":    l.LineNumber,
			"hcpcs":          l.HCPCS,
			"payment_method": l.PaymentMethod,
			"service_units":  l.ServiceUnits,
			"edit_list":      l.EditList,
		}
	}

	req := engine.Request{"lines": lines, "claim_edit_list": ioceOut.ClaimEditList}
	applyProviderFields(req, row)

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return claim.OPPSOutput{PricerOutput: extractPricerOutput(dom, resp), Lines: ioceOut.Lines}, nil
}
