package ports

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
)

// BidRepository stores delivery bids. Bids are never deleted.
type BidRepository interface {
	Add(ctx context.Context, bid *auction.Bid) error

	// MarkSelected flags the winning bid.
	MarkSelected(ctx context.Context, bid *auction.Bid) error

	// ListByOrder returns every bid of the order in submission order.
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*auction.Bid, error)
}

// BiddingWindowRepository is the keyed store of bidding windows. Its two write
// operations are atomic compare-and-set statements, so concurrent callers are
// serialised on the window row without any in-process lock.
type BiddingWindowRepository interface {
	// Open persists a new window. Opening a second window for an order fails.
	Open(ctx context.Context, window *auction.Window) error

	Get(ctx context.Context, orderID kernel.UUID) (*auction.Window, error)

	// RegisterBid increments the bid counter if the window is open and its deadline is
	// after at, returning the new count. A closed or expired window yields
	// auction.ErrWindowClosed.
	RegisterBid(ctx context.Context, orderID kernel.UUID, at time.Time) (int, error)

	// CloseIfOpen closes the window if it is still open. Exactly one caller ever gets
	// true for a given window.
	CloseIfOpen(ctx context.Context, orderID kernel.UUID, at time.Time, reason auction.CloseReason) (bool, error)

	// ListExpiredOpen returns the orders whose window is open past its deadline.
	ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error)

	// ListOpen returns the open windows, used to re-arm timers after a restart.
	ListOpen(ctx context.Context) ([]*auction.Window, error)
}
