package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
)

// CheckVIPUpgradeCommandHandler grants VIP status to customers who earned it. It runs
// after order placement and after delivery, and can be triggered on its own.
type CheckVIPUpgradeCommandHandler struct {
	uowFactory UoWFactory
	policy     services.VIPPolicy
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewCheckVIPUpgradeCommandHandler(
	uowFactory UoWFactory,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *CheckVIPUpgradeCommandHandler {
	return &CheckVIPUpgradeCommandHandler{
		uowFactory: uowFactory,
		policy:     services.NewVIPPolicy(),
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

// Handle reports whether the customer was upgraded by this call.
func (h *CheckVIPUpgradeCommandHandler) Handle(ctx context.Context, cmd CheckVIPUpgradeCommand) (bool, error) {
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

	user, err := uow.UserRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return false, err
	}
	customer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return false, err
	}
	pending, err := uow.ComplaintRepository().HasPendingAgainst(ctx, cmd.CustomerID())
	if err != nil {
		return false, err
	}
	if !h.policy.Qualifies(customer, user, pending) {
		return false, nil
	}

	customer.GrantVIP(h.clock.Now())
	if err = uow.CustomerRepository().UpdateVIP(ctx, customer); err != nil {
		return false, err
	}
	if err = uow.Commit(ctx); err != nil {
		return false, err
	}

	notifyAfterCommit(ctx, h.notifier, userNote(customer.ID(), "vip_granted", nil))
	h.logger.InfoContext(ctx, "customer upgraded to vip",
		"customer_id", customer.ID().String(), "total_orders", customer.TotalOrders(),
		"total_spent", customer.TotalSpent().String())
	return true, nil
}
