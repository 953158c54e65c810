package queries

import (
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var (
	ErrGetRankedBidsQueryIsNotConstructed = errors.New(
		"GetRankedBidsQuery must be created via NewGetRankedBidsQuery constructor",
	)
)

// GetRankedBidsQuery lists the bids on an order, cheapest first.
type GetRankedBidsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetRankedBidsQuery(orderID kernel.UUID) (GetRankedBidsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetRankedBidsQuery{}, err
	}
	return GetRankedBidsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRankedBidsQuery) Validate() error {
	return q.guard.Validate(ErrGetRankedBidsQueryIsNotConstructed)
}

func (q GetRankedBidsQuery) OrderID() kernel.UUID { return q.orderID }

type RankedBid struct {
	BidID      kernel.UUID
	DeliveryID kernel.UUID
	Amount     kernel.Money
	ETAMinutes int
	CreatedAt  time.Time
	IsSelected bool
}

// GetRankedBidsQueryResponse carries the window state next to the bids so a manager can
// tell a finished auction from a running one.
type GetRankedBidsQueryResponse struct {
	OrderID     kernel.UUID
	Deadline    time.Time
	Closed      bool
	CloseReason string
	Bids        []RankedBid
}
