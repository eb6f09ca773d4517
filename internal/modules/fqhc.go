package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// FQHC prices a federally-qualified health center claim, resolving the
// carrier/locality pair that drives the payment rate in order: an explicit
// value already on the billing provider, then a ZIP9 lookup against the
// billing provider's address, then the same lookup against the servicing
// provider's address.
type FQHC struct {
	Dispatcher *version.Dispatcher
	Providers  ProviderLookup
}

func (m *FQHC) Name() string { return "fqhc" }

func (m *FQHC) Dependencies() []string { return []string{"ioce"} }

func (m *FQHC) Validate(c *claim.Claim) error {
	if c.BillingProvider.Address.Zip5 == "" && c.BillingProvider.Carrier == "" {
		return claimerr.NewValidationError("billing_provider", "requires either a carrier/locality or a ZIP for FQHC pricing")
	}
	return nil
}

func (m *FQHC) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	ioceOut, ok := upstream["ioce"].(claim.IOCEOutput)
	if !ok {
		return nil, &claimerr.UpstreamFailedError{Module: "fqhc", Upstream: "ioce"}
	}

	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	carrier, locality, err := m.resolveCarrierLocality(ctx, c)
	if err != nil {
		return nil, err
	}

	req := engine.Request{
		"carrier":         carrier,
		"locality":        locality,
		"lines":           summarizeIOCELines(ioceOut.Lines),
		"claim_edit_list": ioceOut.ClaimEditList,
	}

	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return claim.FQHCOutput{
		PricerOutput: extractPricerOutput(dom, resp),
		Carrier:      carrier,
		Locality:     locality,
	}, nil
}

func (m *FQHC) resolveCarrierLocality(ctx context.Context, c *claim.Claim) (string, string, error) {
	if c.BillingProvider.Carrier != "" && c.BillingProvider.Locality != "" {
		return c.BillingProvider.Carrier, c.BillingProvider.Locality, nil
	}

	if row, err := m.Providers.FindZip9(ctx, c.BillingProvider.Address.Zip5, c.BillingProvider.Address.Plus4, c.ThruDate.Time); err == nil {
		return row.Carrier, row.Locality, nil
	}

	if c.ServicingProvider != nil {
		row, err := m.Providers.FindZip9(ctx, c.ServicingProvider.Address.Zip5, c.ServicingProvider.Address.Plus4, c.ThruDate.Time)
		if err == nil {
			return row.Carrier, row.Locality, nil
		}
		return "", "", err
	}

	return "", "", &claimerr.ReferenceNotFoundError{ResourceType: "zip9", Key: c.BillingProvider.Address.Zip5, AsOf: c.ThruDate.CompactFormat()}
}

func summarizeIOCELines(lines []claim.IOCELineOutput) []engine.Request {
	out := make([]engine.Request, len(lines))
	for i, l := range lines {
		out[i] = engine.Request{
			"line_number":    l.LineNumber,
			"hcpcs":          l.HCPCS,
			"payment_method": l.PaymentMethod,
			"service_units":  l.ServiceUnits,
		}
	}
	return out
}
