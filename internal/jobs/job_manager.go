package jobs

import (
	"context"
	"fmt"
	"log/slog"
)

// JobManager coordinates the background work: per-order timers, the expired-window sweep
// and the pending refund retry.
type JobManager struct {
	timers  *BiddingWindowTimers
	windows openWindowLister
	sweep   *BiddingWindowSweepJob
	refunds *PendingRefundJob
	logger  *slog.Logger
}

func NewJobManager(
	timers *BiddingWindowTimers,
	windows openWindowLister,
	sweep *BiddingWindowSweepJob,
	refunds *PendingRefundJob,
	logger *slog.Logger,
) *JobManager {
	return &JobManager{
		timers:  timers,
		windows: windows,
		sweep:   sweep,
		refunds: refunds,
		logger:  logger.With("component", "job_manager"),
	}
}

// StartAll re-arms the timers of windows left open by a previous run, then starts the
// sweep and the refund retry.
func (jm *JobManager) StartAll(ctx context.Context) error {
	if _, err := jm.timers.Rearm(ctx, jm.windows); err != nil {
		return fmt.Errorf("failed to re-arm bidding window timers: %w", err)
	}

	if err := jm.sweep.Start(); err != nil {
		jm.timers.Stop()
		return fmt.Errorf("failed to start bidding window sweep job: %w", err)
	}

	if err := jm.refunds.Start(); err != nil {
		jm.sweep.Stop()
		jm.timers.Stop()
		return fmt.Errorf("failed to start pending refund job: %w", err)
	}
	return nil
}

// StopAll stops all jobs. Windows still open are picked up by the next start.
func (jm *JobManager) StopAll() {
	pending := jm.timers.Pending()
	jm.refunds.Stop()
	jm.sweep.Stop()
	jm.timers.Stop()
	jm.logger.Info("all jobs stopped", "disarmed_timers", pending)
}
