// Package queue enqueues claims for asynchronous processing and dispatches
// them back into the orchestrator from a worker process.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/cms-pricing/orchestrator/internal/claim"
)

// TypeClaimProcess identifies a claim-processing task on the queue.
const TypeClaimProcess = "claim:process"

// defaultClaimTimeout bounds how long a single claim may occupy a worker
// before asynq considers the task failed and eligible for retry.
const defaultClaimTimeout = 2 * time.Minute

// ClaimProcessPayload is the durable, wire-stable task payload. It carries
// the full claim rather than a reference, since claims are not persisted
// anywhere the worker could re-fetch them from.
type ClaimProcessPayload struct {
	Claim claim.Claim `json:"claim"`
}

// Scheduler enqueues claims onto an asynq-backed queue.
type Scheduler struct {
	client    *asynq.Client
	redisAddr string
}

// NewScheduler connects to the Redis instance backing the queue.
func NewScheduler(redisAddr string) (*Scheduler, error) {
	client := asynq.NewClient(asynq.RedisClientOpt{Addr: redisAddr})

	if err := client.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("connecting to queue redis: %w", err)
	}

	return &Scheduler{client: client, redisAddr: redisAddr}, nil
}

// EnqueueClaim schedules c for asynchronous processing, returning the
// task's queue-assigned ID.
func (s *Scheduler) EnqueueClaim(ctx context.Context, c claim.Claim) (*asynq.TaskInfo, error) {
	payloadBytes, err := json.Marshal(ClaimProcessPayload{Claim: c})
	if err != nil {
		return nil, fmt.Errorf("marshaling claim payload: %w", err)
	}

	task := asynq.NewTask(TypeClaimProcess, payloadBytes)

	info, err := s.client.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(defaultClaimTimeout))
	if err != nil {
		return nil, fmt.Errorf("enqueueing claim %s: %w", c.ID, err)
	}

	return info, nil
}

// Close releases the scheduler's queue connection.
func (s *Scheduler) Close() error {
	return s.client.Close()
}

// TaskInfo retrieves the current state of a previously enqueued task.
func (s *Scheduler) TaskInfo(queueName, taskID string) (*asynq.TaskInfo, error) {
	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: s.redisAddr})
	defer inspector.Close()

	return inspector.GetTaskInfo(queueName, taskID)
}
