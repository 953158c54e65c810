package commands

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
)

// AuctionSettings are the bidding window parameters.
type AuctionSettings struct {
	Window time.Duration
	Quorum int
}

func DefaultAuctionSettings() AuctionSettings {
	return AuctionSettings{Window: auction.DefaultWindowDuration, Quorum: auction.DefaultQuorum}
}

func (s AuctionSettings) normalized() AuctionSettings {
	if s.Window <= 0 {
		s.Window = auction.DefaultWindowDuration
	}
	if s.Quorum <= 0 {
		s.Quorum = auction.DefaultQuorum
	}
	return s
}

type auctionWorkspace interface {
	BidRepository() ports.BidRepository
	ManagerInbox() ports.ManagerInbox
}

// announceRankedBids posts the order's bids, cheapest first, to the manager inbox. It
// returns false when there is nothing to announce.
func announceRankedBids(
	ctx context.Context,
	ws auctionWorkspace,
	orderID kernel.UUID,
	reason auction.CloseReason,
	at time.Time,
) (ports.Notification, bool, error) {
	bids, err := ws.BidRepository().ListByOrder(ctx, orderID)
	if err != nil {
		return ports.Notification{}, false, err
	}
	if len(bids) == 0 {
		return ports.Notification{}, false, nil
	}

	ranked := auction.Rank(bids)
	lines := make([]map[string]any, 0, len(ranked))
	for _, b := range ranked {
		lines = append(lines, map[string]any{
			"bid_id":      b.ID().String(),
			"delivery_id": b.DeliveryID().String(),
			"amount":      b.Amount().String(),
			"eta_minutes": b.ETAMinutes(),
		})
	}
	body := map[string]any{
		"order_id":     orderID.String(),
		"close_reason": string(reason),
		"bids":         lines,
	}

	msg := ports.NewInboxMessage(ports.InboxRankedBids, orderID, body, at)
	if err = ws.ManagerInbox().Post(ctx, msg); err != nil {
		return ports.Notification{}, false, err
	}
	return managersNote("bidding_closed", body), true, nil
}

func hasBidFrom(ctx context.Context, ws auctionWorkspace, orderID, deliveryID kernel.UUID) (bool, error) {
	bids, err := ws.BidRepository().ListByOrder(ctx, orderID)
	if err != nil {
		return false, err
	}
	for _, b := range bids {
		if b.DeliveryID().IsEqual(deliveryID) {
			return true, nil
		}
	}
	return false, nil
}
