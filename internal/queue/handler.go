package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/cms-pricing/orchestrator/internal/orchestrator"
)

// Handlers dispatches queued claims into an Orchestrator.
type Handlers struct {
	orchestrator *orchestrator.Orchestrator
	logger       *zap.SugaredLogger
}

// NewHandlers builds a Handlers bound to the given orchestrator.
func NewHandlers(o *orchestrator.Orchestrator, logger *zap.SugaredLogger) *Handlers {
	return &Handlers{orchestrator: o, logger: logger}
}

// Register wires every handled task type onto mux.
func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeClaimProcess, h.HandleClaimProcess)
}

// HandleClaimProcess decodes a queued claim and runs it through the
// orchestrator. A malformed payload, or a claim the orchestrator rejects
// before running any module, is not retried; a claim with module failures
// is, since those may be transient reference-data or engine faults.
func (h *Handlers) HandleClaimProcess(ctx context.Context, t *asynq.Task) error {
	var payload ClaimProcessPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("decoding claim payload: %w: %w", err, asynq.SkipRetry)
	}

	if h.logger != nil {
		h.logger.Infow("processing queued claim", "claim_id", payload.Claim.ID)
	}

	out, err := h.orchestrator.Process(ctx, &payload.Claim)
	if err != nil {
		if h.logger != nil {
			h.logger.Errorw("claim rejected before processing", "claim_id", payload.Claim.ID, "error", err)
		}
		return fmt.Errorf("processing claim %s: %w: %w", payload.Claim.ID, err, asynq.SkipRetry)
	}

	if len(out.Errors) > 0 {
		if h.logger != nil {
			h.logger.Warnw("claim processed with module failures", "claim_id", payload.Claim.ID, "failed_modules", len(out.Errors))
		}
		return fmt.Errorf("claim %s completed with %d module failure(s)", payload.Claim.ID, len(out.Errors))
	}

	if h.logger != nil {
		h.logger.Infow("claim processed", "claim_id", payload.Claim.ID, "modules", len(out.Results))
	}

	return nil
}
