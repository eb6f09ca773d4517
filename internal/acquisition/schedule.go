package acquisition

import (
	"context"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic re-inventory (and optional re-acquire) passes
// against a workspace, so a long-running host process can keep its
// artifacts current without an operator polling by hand.
type Scheduler struct {
	cron     *cron.Cron
	acquirer *Acquirer
	logger   *zap.SugaredLogger
}

// NewScheduler wraps an Acquirer with a cron-driven re-inventory loop.
func NewScheduler(acquirer *Acquirer, logger *zap.SugaredLogger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Scheduler{
		cron:     cron.New(),
		acquirer: acquirer,
		logger:   logger,
	}
}

// ScheduleReinventory runs Inventory() on spec (standard 5-field cron
// syntax) and, when the result is incomplete, runs Acquire(force=false) to
// backfill whatever is still missing.
func (s *Scheduler) ScheduleReinventory(spec string) error {
	_, err := s.cron.AddFunc(spec, func() {
		inv := s.acquirer.Inventory()
		if inv.Complete() {
			s.logger.Debugw("acquisition: scheduled inventory check found workspace complete")
			return
		}
		s.logger.Infow("acquisition: scheduled inventory found gaps, backfilling", "missing_components", len(inv.Missing))
		collector, err := s.acquirer.Acquire(context.Background(), false)
		if err != nil {
			s.logger.Errorw("acquisition: scheduled backfill failed to start", "error", err)
			return
		}
		if collector.HasFailures() {
			s.logger.Warnw("acquisition: scheduled backfill left artifacts missing", "failures", collector.Failures())
		}
	})
	return err
}

// Start begins running scheduled jobs in the background.
func (s *Scheduler) Start() { s.cron.Start() }

// Stop halts the scheduler without waiting for a running job; the returned
// context is done once any running job has finished.
func (s *Scheduler) Stop() context.Context { return s.cron.Stop() }
