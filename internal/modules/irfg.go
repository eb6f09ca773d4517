package modules

import (
	"context"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
)

// IRFG groups an inpatient-rehab claim's IRF-PAI assessment into a
// case-mix group (CMG).
type IRFG struct {
	Dispatcher *version.Dispatcher
}

func (m *IRFG) Name() string { return "irfg" }

func (m *IRFG) Dependencies() []string { return nil }

func (m *IRFG) Validate(c *claim.Claim) error {
	if len(c.IRFPAI) == 0 {
		return claimerr.NewValidationError("irf_pai", "is required for inpatient-rehab grouping")
	}
	return nil
}

func (m *IRFG) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	dom, err := m.Dispatcher.DomainForClaim(c)
	if err != nil {
		return nil, err
	}

	req := engine.Request{"assessment": c.IRFPAI, "thru_date": engine.MarshalDate(c.ThruDate)}
	resp, err := dom.Process(ctx, "process", req)
	if err != nil {
		return nil, err
	}

	return claim.IRFGOutput{
		CMG:             extractString(dom, resp, "cmg"),
		TierComorbidity: extractString(dom, resp, "tier_comorbidity"),
	}, nil
}
