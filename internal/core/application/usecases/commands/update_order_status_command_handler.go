package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/ports"
)

// UpdateOrderStatusCommandHandler moves an order out for delivery or to delivered. The
// delivery credit is written in the same transaction as the DELIVERED status, and the
// versioned order update rejects a write racing with another status change.
type UpdateOrderStatusCommandHandler struct {
	uowFactory UoWFactory
	ledger     *ledger.Ledger
	vip        *CheckVIPUpgradeCommandHandler
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory UoWFactory,
	l *ledger.Ledger,
	vip *CheckVIPUpgradeCommandHandler,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *UpdateOrderStatusCommandHandler {
	return &UpdateOrderStatusCommandHandler{
		uowFactory: uowFactory,
		ledger:     l,
		vip:        vip,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
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
	if err = o.UpdateStatus(cmd.DeliveryID(), cmd.NewStatus(), h.clock.Now()); err != nil {
		return err
	}
	if err = uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if o.Status() == order.Delivered {
		if err = h.ledger.CreditDelivery(ctx, uow, cmd.DeliveryID(), o.ID(), o.DeliveryPrice()); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notifyAfterCommit(ctx, h.notifier, userNote(o.CustomerID(), "order_status_changed", map[string]any{
		"order_id": o.ID().String(),
		"status":   o.Status().String(),
	}))
	h.logger.InfoContext(ctx, "order status updated",
		"order_id", o.ID().String(), "status", o.Status().String(), "delivery_id", cmd.DeliveryID().String())

	if o.Status() == order.Delivered && h.vip != nil {
		vipCmd, err := NewCheckVIPUpgradeCommand(o.CustomerID())
		if err == nil {
			_, err = h.vip.Handle(ctx, vipCmd)
		}
		if err != nil {
			h.logger.ErrorContext(ctx, "vip upgrade check failed",
				"customer_id", o.CustomerID().String(), "error", err)
		}
	}
	return nil
}
