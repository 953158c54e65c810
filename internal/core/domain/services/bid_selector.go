package services

import (
	"strings"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// ErrMemoRequired is returned when a manager picks a bid above the minimum without a
// justification.
var ErrMemoRequired = feedback.ErrMemoRequired

// Selection is the outcome of a manager's bid choice.
type Selection struct {
	Bid *auction.Bid

	// Override is true when the chosen bid is above the lowest amount; the caller must
	// then persist a DELIVERY_BID_OVERRIDE memo.
	Override bool
}

// BidSelector enforces the override-accountability rule: choosing any bid other than a
// lowest one requires a non-empty memo.
type BidSelector struct{}

func NewBidSelector() BidSelector {
	return BidSelector{}
}

// Select finds selectedBidID among the order's bids and checks the memo requirement.
func (BidSelector) Select(bids []*auction.Bid, selectedBidID *kernel.UUID, memo string) (Selection, error) {
	if selectedBidID == nil {
		return Selection{}, errs.NewValueIsRequiredError("selected_bid_id")
	}

	var selected *auction.Bid
	for _, b := range bids {
		if b.ID().IsEqual(*selectedBidID) {
			selected = b
			break
		}
	}
	if selected == nil {
		return Selection{}, errs.NewObjectNotFoundError("bid", selectedBidID.String())
	}

	lowest, _ := auction.Lowest(bids)
	override := selected.Amount().GreaterThan(lowest)
	if override && strings.TrimSpace(memo) == "" {
		return Selection{}, ErrMemoRequired
	}

	return Selection{Bid: selected, Override: override}, nil
}
