package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"auctiondelivery/internal/core/application/usecases/commands"
	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
)

// windowCloser is the close path shared by timers, the sweep and manual closes.
type windowCloser interface {
	Handle(ctx context.Context, cmd commands.CloseBiddingCommand) (bool, error)
}

// openWindowLister finds the windows that need a timer after a restart.
type openWindowLister interface {
	ListOpen(ctx context.Context) ([]*auction.Window, error)
}

// armedTimer is the tracking entry of one Schedule call. A fire only clears the entry it
// was armed with.
type armedTimer struct {
	timer *time.Timer
}

// BiddingWindowTimers keeps one in-process timer per open bidding window. When a timer
// fires the window is closed with reason timeout. Timers are lost on restart; Rearm and
// the sweep job cover that.
type BiddingWindowTimers struct {
	mu     sync.Mutex
	timers map[kernel.UUID]*armedTimer
	closer windowCloser
	now    func() time.Time
	logger *slog.Logger

	closeTimeout time.Duration
}

func NewBiddingWindowTimers(logger *slog.Logger) *BiddingWindowTimers {
	return &BiddingWindowTimers{
		timers:       make(map[kernel.UUID]*armedTimer),
		now:          time.Now,
		logger:       logger.With("component", "bidding_window_timers"),
		closeTimeout: 10 * time.Second,
	}
}

// Attach sets the close path. The close handler itself needs the timers as its scheduler,
// so the two are wired in two steps.
func (t *BiddingWindowTimers) Attach(closer windowCloser) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closer = closer
}

// Schedule arms (or re-arms) the timer of an order.
func (t *BiddingWindowTimers) Schedule(orderID kernel.UUID, deadline time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.timers[orderID]; ok {
		existing.timer.Stop()
	}
	delay := max(deadline.Sub(t.now()), 0)
	entry := &armedTimer{}
	entry.timer = time.AfterFunc(delay, func() { t.fire(orderID, entry) })
	t.timers[orderID] = entry
}

// Cancel stops the timer of an order. Cancelling an unknown order is a no-op.
func (t *BiddingWindowTimers) Cancel(orderID kernel.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.timers[orderID]; ok {
		existing.timer.Stop()
		delete(t.timers, orderID)
	}
}

// Pending returns the number of armed timers.
func (t *BiddingWindowTimers) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.timers)
}

// Rearm schedules a timer for every window still open in storage.
func (t *BiddingWindowTimers) Rearm(ctx context.Context, windows openWindowLister) (int, error) {
	open, err := windows.ListOpen(ctx)
	if err != nil {
		return 0, err
	}
	for _, w := range open {
		t.Schedule(w.OrderID(), w.Deadline())
	}
	t.logger.InfoContext(ctx, "bidding window timers re-armed", "count", len(open))
	return len(open), nil
}

// Stop disarms every timer.
func (t *BiddingWindowTimers) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, entry := range t.timers {
		entry.timer.Stop()
		delete(t.timers, id)
	}
}

func (t *BiddingWindowTimers) fire(orderID kernel.UUID, entry *armedTimer) {
	t.mu.Lock()
	if t.timers[orderID] != entry {
		// Re-armed or cancelled after this timer had already fired.
		t.mu.Unlock()
		return
	}
	delete(t.timers, orderID)
	closer := t.closer
	t.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), t.closeTimeout)
	defer cancel()

	if closer == nil {
		t.logger.ErrorContext(ctx, "bidding window timer fired without a close handler", "order_id", orderID.String())
		return
	}
	cmd, err := commands.NewCloseBiddingCommand(orderID, auction.ClosedByTimeout)
	if err != nil {
		t.logger.ErrorContext(ctx, "build close command", "order_id", orderID.String(), "error", err)
		return
	}
	closed, err := closer.Handle(ctx, cmd)
	if err != nil {
		t.logger.ErrorContext(ctx, "bidding window timeout close failed", "order_id", orderID.String(), "error", err)
		return
	}
	t.logger.InfoContext(ctx, "bidding window timer fired", "order_id", orderID.String(), "closed", closed)
}
