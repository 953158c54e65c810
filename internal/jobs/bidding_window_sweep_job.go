package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultSweepSpec runs the sweep every ten seconds.
	DefaultSweepSpec = "*/10 * * * * *"

	sweepBatchSize = 100
	sweepJobName   = "bidding_window_sweep"
)

type expiredWindowFinder interface {
	ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error)
}

// BiddingWindowSweepJob closes windows that are open past their deadline. It backs up the
// in-process timers, which do not survive a restart.
type BiddingWindowSweepJob struct {
	finder  expiredWindowFinder
	closer  windowCloser
	now     func() time.Time
	spec    string
	cron    *cron.Cron
	metrics *metrics.JobMetrics
	logger  *slog.Logger
}

func NewBiddingWindowSweepJob(
	finder expiredWindowFinder,
	closer windowCloser,
	now func() time.Time,
	spec string,
	m *metrics.JobMetrics,
	logger *slog.Logger,
) *BiddingWindowSweepJob {
	if spec == "" {
		spec = DefaultSweepSpec
	}
	return &BiddingWindowSweepJob{
		finder:  finder,
		closer:  closer,
		now:     now,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds()),
		metrics: m,
		logger:  logger.With("component", "bidding_window_sweep_job"),
	}
}

func (j *BiddingWindowSweepJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		started := time.Now()
		closed, err := j.RunOnce(ctx)
		j.metrics.Observe(sweepJobName, time.Since(started), err)
		if err != nil {
			j.logger.ErrorContext(ctx, "Bidding window sweep failed", "error", err)
			return
		}
		if closed > 0 {
			j.logger.InfoContext(ctx, "Bidding window sweep closed expired windows", "closed", closed)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Bidding window sweep job started", "spec", j.spec)
	return nil
}

// RunOnce closes one batch of expired windows and reports how many this call closed.
// A window closed concurrently by its timer is skipped silently.
func (j *BiddingWindowSweepJob) RunOnce(ctx context.Context) (int, error) {
	expired, err := j.finder.ListExpiredOpen(ctx, j.now(), sweepBatchSize)
	if err != nil {
		return 0, err
	}

	var errList []error
	closed := 0
	for _, orderID := range expired {
		cmd, err := commands.NewCloseBiddingCommand(orderID, auction.ClosedByTimeout)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		ok, err := j.closer.Handle(ctx, cmd)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		if ok {
			closed++
		}
	}
	return closed, errors.Join(errList...)
}

func (j *BiddingWindowSweepJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Bidding window sweep job stopped")
}
