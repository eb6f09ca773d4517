package orchestrator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/claimerr"
	"github.com/cms-pricing/orchestrator/internal/modules"
)

// fakeModule is a scriptable modules.Module for exercising the orchestrator
// without any real engine or reference-data wiring.
type fakeModule struct {
	name    string
	deps    []string
	result  any
	err     error
	invoked bool
}

func (m *fakeModule) Name() string            { return m.name }
func (m *fakeModule) Dependencies() []string  { return m.deps }
func (m *fakeModule) Validate(c *claim.Claim) error { return nil }
func (m *fakeModule) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	m.invoked = true
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func groupedClaim(mods []string) *claim.Claim {
	return &claim.Claim{
		PrincipalDiagnosis: claim.NewPrincipalDiagnosis("A000", claim.POAYes),
		FromDate:           claim.Date{},
		ThruDate:           claim.Date{},
		Modules:            mods,
	}
}

func TestOrchestratorRunsIndependentModulesAndAggregatesResults(t *testing.T) {
	drg := &fakeModule{name: "drg", result: "drg-output"}
	ipps := &fakeModule{name: "ipps", deps: []string{"drg"}, result: "ipps-output"}

	o := New(map[string]modules.Module{"drg": drg, "ipps": ipps}, nil)
	out, err := o.Process(context.Background(), groupedClaim([]string{"ipps"}))
	require.NoError(t, err)

	assert.True(t, drg.invoked)
	assert.True(t, ipps.invoked)
	assert.Equal(t, "drg-output", out.Results["drg"])
	assert.Equal(t, "ipps-output", out.Results["ipps"])
	assert.Empty(t, out.Errors)
}

func TestOrchestratorSkipsDependentsOfFailedUpstream(t *testing.T) {
	drg := &fakeModule{name: "drg", err: errors.New("engine fault")}
	ipps := &fakeModule{name: "ipps", deps: []string{"drg"}, result: "should not run"}

	o := New(map[string]modules.Module{"drg": drg, "ipps": ipps}, nil)
	out, err := o.Process(context.Background(), groupedClaim([]string{"ipps"}))
	require.NoError(t, err)

	assert.True(t, drg.invoked)
	assert.False(t, ipps.invoked)

	require.Contains(t, out.Errors, "drg")
	require.Contains(t, out.Errors, "ipps")

	var upstreamErr *claimerr.UpstreamFailedError
	require.ErrorAs(t, out.Errors["ipps"], &upstreamErr)
	assert.Equal(t, "ipps", upstreamErr.Module)
	assert.Equal(t, "drg", upstreamErr.Upstream)
}

func TestOrchestratorRejectsInvalidClaimBeforePlanning(t *testing.T) {
	drg := &fakeModule{name: "drg"}
	o := New(map[string]modules.Module{"drg": drg}, nil)

	c := groupedClaim([]string{"drg"})
	c.PrincipalDiagnosis = claim.DiagnosisCode{}

	_, err := o.Process(context.Background(), c)
	require.Error(t, err)
	assert.False(t, drg.invoked)
}
