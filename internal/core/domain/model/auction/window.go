package auction

import (
	"errors"
	"fmt"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// DefaultWindowDuration and DefaultQuorum are the auction parameters used unless the
// service configuration overrides them.
const (
	DefaultWindowDuration = 5 * time.Minute
	DefaultQuorum         = 3
)

var (
	ErrWindowIsNotConstructed = errors.New("Window must be created via OpenWindow constructor")

	// ErrWindowClosed is returned for a bid arriving after the window was closed.
	ErrWindowClosed = errs.NewStateConflictError("bidding window", "closed")

	// ErrNotAcceptingBids is returned for a bid on an order that is not awaiting bids.
	ErrNotAcceptingBids = errs.NewStateConflictError("order", "not accepting bids")
)

// CloseReason records why a window was closed.
type CloseReason string

const (
	ClosedByQuorum     CloseReason = "quorum"
	ClosedByTimeout    CloseReason = "timeout"
	ClosedByAssignment CloseReason = "assignment"
	ClosedManually     CloseReason = "manual"
)

// Window is the bidding window of one order. Windows are keyed by order id; the
// persistence layer provides the atomic register-bid and compare-and-close operations.
type Window struct {
	orderID     kernel.UUID
	openedAt    time.Time
	duration    time.Duration
	bidCount    int
	closed      bool
	closedAt    *time.Time
	closeReason CloseReason

	isConstructed bool
}

// OpenWindow starts a window of the given duration.
func OpenWindow(orderID kernel.UUID, openedAt time.Time, duration time.Duration) (*Window, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("duration", fmt.Errorf("%s is not positive", duration))
	}
	return &Window{orderID: orderID, openedAt: openedAt, duration: duration, isConstructed: true}, nil
}

// RestoreWindow rebuilds a persisted window.
func RestoreWindow(
	orderID kernel.UUID,
	openedAt time.Time,
	duration time.Duration,
	bidCount int,
	closedAt *time.Time,
	reason CloseReason,
) (*Window, error) {
	w, err := OpenWindow(orderID, openedAt, duration)
	if err != nil {
		return nil, err
	}
	w.bidCount = bidCount
	w.closed = closedAt != nil
	w.closedAt = closedAt
	w.closeReason = reason
	return w, nil
}

func (w *Window) Validate() error {
	if w == nil || !w.isConstructed {
		return ErrWindowIsNotConstructed
	}
	return nil
}

func (w *Window) OrderID() kernel.UUID {
	return w.orderID
}

func (w *Window) OpenedAt() time.Time {
	return w.openedAt
}

func (w *Window) Duration() time.Duration {
	return w.duration
}

// Deadline is the instant the window times out.
func (w *Window) Deadline() time.Time {
	return w.openedAt.Add(w.duration)
}

func (w *Window) BidCount() int {
	return w.bidCount
}

func (w *Window) IsClosed() bool {
	return w.closed
}

func (w *Window) ClosedAt() *time.Time {
	return w.closedAt
}

func (w *Window) CloseReason() CloseReason {
	return w.closeReason
}

// IsExpired reports whether the deadline passed at now.
func (w *Window) IsExpired(now time.Time) bool {
	return !now.Before(w.Deadline())
}

// AcceptsBidAt reports whether a bid arriving at now may be registered.
func (w *Window) AcceptsBidAt(now time.Time) error {
	if w.closed || w.IsExpired(now) {
		return ErrWindowClosed
	}
	return nil
}
