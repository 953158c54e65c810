package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/metrics"
)

// SubmitBidResult tells the bidder whether their bid completed the quorum.
type SubmitBidResult struct {
	BidID        kernel.UUID
	BidCount     int
	ClosedWindow bool
}

// SubmitBidCommandHandler accepts bids while the window is open. The bid that brings the
// count to the quorum closes the window; the window row is the serialisation point, so
// exactly one bidder performs that close.
type SubmitBidCommandHandler struct {
	uowFactory UoWFactory
	settings   AuctionSettings
	scheduler  ports.WindowScheduler
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
	metrics    *metrics.DomainMetrics
}

func NewSubmitBidCommandHandler(
	uowFactory UoWFactory,
	settings AuctionSettings,
	scheduler ports.WindowScheduler,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
	m *metrics.DomainMetrics,
) *SubmitBidCommandHandler {
	return &SubmitBidCommandHandler{
		uowFactory: uowFactory,
		settings:   settings.normalized(),
		scheduler:  scheduler,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		metrics:    m,
	}
}

func (h *SubmitBidCommandHandler) Handle(ctx context.Context, cmd SubmitBidCommand) (SubmitBidResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitBidResult{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitBidResult{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	user, err := uow.UserRepository().Get(ctx, cmd.DeliveryID())
	if err != nil {
		return SubmitBidResult{}, err
	}
	if err = user.CanBid(); err != nil {
		return SubmitBidResult{}, err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return SubmitBidResult{}, err
	}
	if o.Status() != order.AwaitingBids {
		return SubmitBidResult{}, auction.ErrNotAcceptingBids
	}

	now := h.clock.Now()
	bid, err := auction.NewBid(kernel.NewUUID(), o.ID(), cmd.DeliveryID(), cmd.Amount(), cmd.ETAMinutes(), now)
	if err != nil {
		return SubmitBidResult{}, err
	}

	count, err := uow.BiddingWindowRepository().RegisterBid(ctx, o.ID(), now)
	if err != nil {
		return SubmitBidResult{}, err
	}
	repeat, err := hasBidFrom(ctx, uow, o.ID(), cmd.DeliveryID())
	if err != nil {
		return SubmitBidResult{}, err
	}
	if repeat {
		// Repeat bids count towards the quorum like any other.
		h.logger.WarnContext(ctx, "repeat bid from delivery worker",
			"order_id", o.ID().String(), "delivery_id", cmd.DeliveryID().String())
	}
	if err = uow.BidRepository().Add(ctx, bid); err != nil {
		return SubmitBidResult{}, err
	}

	res := SubmitBidResult{BidID: bid.ID(), BidCount: count}
	var announcement ports.Notification
	var announced bool
	if count >= h.settings.Quorum {
		res.ClosedWindow, err = uow.BiddingWindowRepository().CloseIfOpen(ctx, o.ID(), now, auction.ClosedByQuorum)
		if err != nil {
			return SubmitBidResult{}, err
		}
		if res.ClosedWindow {
			announcement, announced, err = announceRankedBids(ctx, uow, o.ID(), auction.ClosedByQuorum, now)
			if err != nil {
				return SubmitBidResult{}, err
			}
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitBidResult{}, err
	}
	h.metrics.BidAccepted()

	if res.ClosedWindow {
		h.metrics.WindowClosed(string(auction.ClosedByQuorum))
		if h.scheduler != nil {
			h.scheduler.Cancel(o.ID())
		}
		h.logger.InfoContext(ctx, "bidding closed on quorum", "order_id", o.ID().String(), "bids", count)
	}
	if announced {
		notifyAfterCommit(ctx, h.notifier, announcement)
	}
	return res, nil
}
