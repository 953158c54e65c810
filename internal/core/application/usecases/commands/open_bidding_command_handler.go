package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/ports"
)

// OpenBiddingCommandHandler opens the bidding window of a placed order, arms its timeout
// and tells every available delivery worker about it.
type OpenBiddingCommandHandler struct {
	uowFactory UoWFactory
	settings   AuctionSettings
	scheduler  ports.WindowScheduler
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewOpenBiddingCommandHandler(
	uowFactory UoWFactory,
	settings AuctionSettings,
	scheduler ports.WindowScheduler,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *OpenBiddingCommandHandler {
	return &OpenBiddingCommandHandler{
		uowFactory: uowFactory,
		settings:   settings.normalized(),
		scheduler:  scheduler,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

// Handle returns a state conflict unless the order is PLACED. Opening a second window
// for the same order fails in the repository.
func (h *OpenBiddingCommandHandler) Handle(ctx context.Context, cmd OpenBiddingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if err = o.OpenBidding(); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}

	window, err := auction.OpenWindow(o.ID(), h.clock.Now(), h.settings.Window)
	if err != nil {
		return err
	}
	if err = uow.BiddingWindowRepository().Open(ctx, window); err != nil {
		return err
	}

	available, err := uow.EmployeeRepository().ListAvailableDelivery(ctx)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	if h.scheduler != nil {
		h.scheduler.Schedule(o.ID(), window.Deadline())
	}

	notes := make([]ports.Notification, 0, len(available))
	payload := map[string]any{
		"order_id": o.ID().String(),
		"deadline": window.Deadline(),
	}
	for _, worker := range available {
		notes = append(notes, userNote(worker.ID(), "bidding_opened", payload))
	}
	notifyAfterCommit(ctx, h.notifier, notes...)

	h.logger.InfoContext(ctx, "bidding opened",
		"order_id", o.ID().String(), "deadline", window.Deadline(), "notified", len(notes))
	return nil
}
