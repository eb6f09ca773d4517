package modules

import (
	"context"
	"testing"
	"time"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/engine"
	"github.com/cms-pricing/orchestrator/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIRFGProcessReturnsCMG(t *testing.T) {
	thru := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	c := &claim.Claim{ThruDate: claim.NewDate(thru), IRFPAI: map[string]any{"admitClass": "01"}}
	ver := version.DRGFiscalYearVersion(c.ThruDate)

	dom, _ := domainWith("IRFG", engine.Response{"cmg": "0101", "tier_comorbidity": "TIER1"})
	m := &IRFG{Dispatcher: singleVersionDispatcher("irfg", ver, dom)}
	require.NoError(t, m.Validate(c))

	out, err := m.Process(context.Background(), c, nil)
	require.NoError(t, err)
	assert.Equal(t, "0101", out.(claim.IRFGOutput).CMG)
}

func TestIRFGValidateRequiresIRFPAI(t *testing.T) {
	m := &IRFG{}
	require.Error(t, m.Validate(&claim.Claim{}))
}
