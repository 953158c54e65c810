package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/metrics"
)

// CloseBiddingCommandHandler is the single close path shared by timers, the sweep job and
// managers. Closing a closed window changes nothing and reports false.
type CloseBiddingCommandHandler struct {
	uowFactory UoWFactory
	scheduler  ports.WindowScheduler
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
	metrics    *metrics.DomainMetrics
}

func NewCloseBiddingCommandHandler(
	uowFactory UoWFactory,
	scheduler ports.WindowScheduler,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
	m *metrics.DomainMetrics,
) *CloseBiddingCommandHandler {
	return &CloseBiddingCommandHandler{
		uowFactory: uowFactory,
		scheduler:  scheduler,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		metrics:    m,
	}
}

// Handle reports whether this call closed the window. With no bids the order simply
// waits for a manager to assign someone.
func (h *CloseBiddingCommandHandler) Handle(ctx context.Context, cmd CloseBiddingCommand) (bool, error) {
	if err := cmd.Validate(); err != nil {
		return false, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if managerID := cmd.ManagerID(); managerID != nil {
		manager, err := uow.UserRepository().Get(ctx, *managerID)
		if err != nil {
			return false, err
		}
		if err = manager.RequireRole(account.RoleManager, "close bidding"); err != nil {
			return false, err
		}
	}

	window, err := uow.BiddingWindowRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return false, err
	}
	if window.IsClosed() {
		return false, nil
	}

	now := h.clock.Now()
	closed, err := uow.BiddingWindowRepository().CloseIfOpen(ctx, cmd.OrderID(), now, cmd.Reason())
	if err != nil || !closed {
		return false, err
	}
	announcement, announced, err := announceRankedBids(ctx, uow, cmd.OrderID(), cmd.Reason(), now)
	if err != nil {
		return false, err
	}

	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	h.metrics.WindowClosed(string(cmd.Reason()))
	if cmd.Reason() != auction.ClosedByTimeout && h.scheduler != nil {
		h.scheduler.Cancel(cmd.OrderID())
	}
	if announced {
		notifyAfterCommit(ctx, h.notifier, announcement)
	}
	h.logger.InfoContext(ctx, "bidding closed",
		"order_id", cmd.OrderID().String(), "reason", string(cmd.Reason()), "bids", window.BidCount())
	return true, nil
}
