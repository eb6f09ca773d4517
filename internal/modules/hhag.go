package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// HHAG groups a home-health claim's OASIS assessment into a HIPPS code.
type HHAG struct {
	Dispatcher *version.Dispatcher
}

func (m *HHAG) Name() string { return "hhag" }

func (m *HHAG) Dependencies() []string { return nil }

func (m *HHAG) Validate(c *claim.Claim) error {
	if len(c.OASIS) == 0 {
		return claimerr.NewValidationError("oasis", "is required for home-health grouping")
	}
	return nil
}

func (m *HHAG) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	req := engine.Request{"assessment": c.OASIS, "thru_date": engine.MarshalDate(c.ThruDate)}
	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return claim.HHAGOutput{
		HIPPSCode: extractString(dom, resp, "hipps_code"),
		CaseMix:   extractString(dom, resp, "case_mix"),
	}, nil
}
