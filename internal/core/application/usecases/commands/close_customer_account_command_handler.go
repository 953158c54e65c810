package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
)

// CloseCustomerAccountCommandHandler closes a customer account and pays its balance back.
// The balance is reserved as a PENDING refund in the closing transaction and paid once that
// has committed; a refund the gateway keeps refusing stays PENDING for the retry job.
type CloseCustomerAccountCommandHandler struct {
	uowFactory UoWFactory
	ledger     *ledger.Ledger
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewCloseCustomerAccountCommandHandler(
	uowFactory UoWFactory,
	l *ledger.Ledger,
	notifier ports.Notifier,
	logger *slog.Logger,
) *CloseCustomerAccountCommandHandler {
	return &CloseCustomerAccountCommandHandler{uowFactory: uowFactory, ledger: l, notifier: notifier, logger: logger}
}

// Handle returns the refunded amount.
func (h *CloseCustomerAccountCommandHandler) Handle(ctx context.Context, cmd CloseCustomerAccountCommand) (kernel.Money, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.ZeroMoney(), err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.ZeroMoney(), err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	manager, err := uow.UserRepository().Get(ctx, cmd.ManagerID())
	if err != nil {
		return kernel.ZeroMoney(), err
	}
	if err = manager.RequireRole(account.RoleManager, "close customer account"); err != nil {
		return kernel.ZeroMoney(), err
	}
	user, err := uow.UserRepository().GetForUpdate(ctx, cmd.CustomerID())
	if err != nil {
		return kernel.ZeroMoney(), err
	}
	if user.Role() != account.RoleCustomer {
		return kernel.ZeroMoney(), errs.NewStateConflictError("account", "is not a customer account")
	}
	if user.Status() == account.Closed || user.Status() == account.Terminated {
		return kernel.ZeroMoney(), errs.NewStateConflictError("account", "already "+user.Status().String())
	}

	refund, reserved, err := h.ledger.ReserveRefund(ctx, uow, user.ID(), "account closed")
	if err != nil {
		return kernel.ZeroMoney(), err
	}
	user.Close()
	if err = uow.UserRepository().Update(ctx, user); err != nil {
		return kernel.ZeroMoney(), err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.ZeroMoney(), err
	}

	refunded := kernel.ZeroMoney()
	refundStatus := "none"
	if reserved {
		refunded = refund.Amount
		refundStatus = "paid"
		if err = h.ledger.PayRefund(ctx, h.uowFactory.Create(), refund); err != nil {
			refundStatus = "pending"
		}
	}

	notifyAfterCommit(ctx, h.notifier, userNote(user.ID(), "account_closed", map[string]any{
		"refunded":      refunded.String(),
		"refund_status": refundStatus,
	}))
	h.logger.InfoContext(ctx, "customer account closed",
		"customer_id", user.ID().String(), "manager_id", manager.ID().String(),
		"refunded", refunded.String(), "refund_status", refundStatus)
	return refunded, nil
}
