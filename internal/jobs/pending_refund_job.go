package jobs

import (
	"context"
	"log/slog"
	"time"

	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/pkg/metrics"

	"github.com/robfig/cron/v3"
)

const (
	// DefaultRefundRetrySpec retries pending refunds every minute.
	DefaultRefundRetrySpec = "0 * * * * *"

	refundBatchSize    = 50
	refundRetryJobName = "pending_refund_retry"
)

type pendingRefundPayer interface {
	RetryPendingRefunds(ctx context.Context, books ledger.Books, limit int) (int, error)
}

// PendingRefundJob pays refunds whose balance was drained but whose gateway call failed.
// Runs never overlap, so a refund is not sent twice by this process.
type PendingRefundJob struct {
	payer   pendingRefundPayer
	books   ledger.Books
	spec    string
	cron    *cron.Cron
	metrics *metrics.JobMetrics
	logger  *slog.Logger
}

func NewPendingRefundJob(
	payer pendingRefundPayer,
	books ledger.Books,
	spec string,
	m *metrics.JobMetrics,
	logger *slog.Logger,
) *PendingRefundJob {
	if spec == "" {
		spec = DefaultRefundRetrySpec
	}
	return &PendingRefundJob{
		payer:   payer,
		books:   books,
		spec:    spec,
		cron:    cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		metrics: m,
		logger:  logger.With("component", "pending_refund_job"),
	}
}

func (j *PendingRefundJob) Start() error {
	_, err := j.cron.AddFunc(j.spec, func() {
		ctx := context.Background()
		started := time.Now()
		paid, err := j.RunOnce(ctx)
		j.metrics.Observe(refundRetryJobName, time.Since(started), err)
		if err != nil {
			j.logger.ErrorContext(ctx, "Pending refund retry failed", "paid", paid, "error", err)
			return
		}
		if paid > 0 {
			j.logger.InfoContext(ctx, "Pending refunds paid", "paid", paid)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Pending refund job started", "spec", j.spec)
	return nil
}

// RunOnce pays one batch of pending refunds and reports how many went through.
func (j *PendingRefundJob) RunOnce(ctx context.Context) (int, error) {
	return j.payer.RetryPendingRefunds(ctx, j.books, refundBatchSize)
}

func (j *PendingRefundJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Pending refund job stopped")
}
