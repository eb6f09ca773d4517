package queue

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cms-pricing/orchestrator/internal/claim"
	"github.com/cms-pricing/orchestrator/internal/modules"
	"github.com/cms-pricing/orchestrator/internal/orchestrator"
)

type stubModule struct {
	name string
	err  error
}

func (s *stubModule) Name() string                      { return s.name }
func (s *stubModule) Dependencies() []string             { return nil }
func (s *stubModule) Validate(c *claim.Claim) error      { return nil }
func (s *stubModule) Process(ctx context.Context, c *claim.Claim, upstream map[string]any) (any, error) {
	if s.err != nil {
		return nil, s.err
	}
	return "ok", nil
}

func groupedClaim(id string, mods []string) claim.Claim {
	return claim.Claim{
		ID:                 id,
		PrincipalDiagnosis: claim.NewPrincipalDiagnosis("A000", claim.POAYes),
		Modules:            mods,
	}
}

func TestHandleClaimProcessSucceedsWhenEveryModuleSucceeds(t *testing.T) {
	o := orchestrator.New(map[string]modules.Module{"mce": &stubModule{name: "mce"}}, nil)
	h := NewHandlers(o, nil)

	payload, err := json.Marshal(ClaimProcessPayload{Claim: groupedClaim("claim-1", []string{"mce"})})
	require.NoError(t, err)

	task := asynq.NewTask(TypeClaimProcess, payload)
	require.NoError(t, h.HandleClaimProcess(context.Background(), task))
}

func TestHandleClaimProcessReturnsErrorOnModuleFailure(t *testing.T) {
	o := orchestrator.New(map[string]modules.Module{"mce": &stubModule{name: "mce", err: assertErr("broken")}}, nil)
	h := NewHandlers(o, nil)

	payload, err := json.Marshal(ClaimProcessPayload{Claim: groupedClaim("claim-2", []string{"mce"})})
	require.NoError(t, err)

	task := asynq.NewTask(TypeClaimProcess, payload)
	err = h.HandleClaimProcess(context.Background(), task)
	assert.Error(t, err)
}

func TestHandleClaimProcessSkipsRetryOnMalformedPayload(t *testing.T) {
	o := orchestrator.New(map[string]modules.Module{}, nil)
	h := NewHandlers(o, nil)

	task := asynq.NewTask(TypeClaimProcess, []byte("not json"))
	err := h.HandleClaimProcess(context.Background(), task)
	require.Error(t, err)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}

type assertErr string

func (e assertErr) Error() string { return string(e) }
