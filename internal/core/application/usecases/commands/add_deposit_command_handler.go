package commands

import (
	"context"
	"errors"
	"log/slog"

	"auctiondelivery/internal/core/application/ledger"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/ports"
)

// AddDepositCommandHandler charges the gateway and settles the outcome. The deposit is
// logged PENDING and committed before the charge, and the charge runs between two short
// transactions so no balance row is locked while the gateway answers. A refused charge
// marks the deposit FAILED and is returned as an external failure. A charge whose
// settlement is lost leaves the PENDING row for reconciliation.
type AddDepositCommandHandler struct {
	uowFactory UoWFactory
	ledger     *ledger.Ledger
	notifier   ports.Notifier
	logger     *slog.Logger
}

func NewAddDepositCommandHandler(
	uowFactory UoWFactory,
	l *ledger.Ledger,
	notifier ports.Notifier,
	logger *slog.Logger,
) *AddDepositCommandHandler {
	return &AddDepositCommandHandler{uowFactory: uowFactory, ledger: l, notifier: notifier, logger: logger}
}

func (h *AddDepositCommandHandler) Handle(ctx context.Context, cmd AddDepositCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if err := h.ledger.ValidateDeposit(cmd.Amount()); err != nil {
		return err
	}
	deposit, err := h.openDeposit(ctx, cmd)
	if err != nil {
		return err
	}

	chargeErr := h.ledger.Charge(ctx, cmd.CustomerID(), cmd.Amount())

	if err = h.settle(ctx, deposit, chargeErr); err != nil {
		if chargeErr == nil {
			h.logger.ErrorContext(ctx, "deposit charged but not credited",
				"customer_id", deposit.CustomerID.String(),
				"amount", deposit.Amount.String(),
				"transaction_id", deposit.TransactionID.String(),
				"error", err)
		}
		return errors.Join(chargeErr, err)
	}
	if chargeErr != nil {
		return chargeErr
	}

	notifyAfterCommit(ctx, h.notifier, userNote(cmd.CustomerID(), "deposit_received", map[string]any{
		"amount": cmd.Amount().String(),
	}))
	h.logger.InfoContext(ctx, "deposit added",
		"customer_id", cmd.CustomerID().String(), "amount", cmd.Amount().String())
	return nil
}

func (h *AddDepositCommandHandler) openDeposit(ctx context.Context, cmd AddDepositCommand) (ledger.Deposit, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return ledger.Deposit{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	user, err := uow.UserRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return ledger.Deposit{}, err
	}
	if err = user.RequireRole(account.RoleCustomer, "add deposit"); err != nil {
		return ledger.Deposit{}, err
	}
	if user.Status() != account.Active {
		return ledger.Deposit{}, account.ErrAccountInactive
	}

	deposit, err := h.ledger.OpenDeposit(ctx, uow, cmd.CustomerID(), cmd.Amount())
	if err != nil {
		return ledger.Deposit{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return ledger.Deposit{}, err
	}
	return deposit, nil
}

func (h *AddDepositCommandHandler) settle(ctx context.Context, deposit ledger.Deposit, chargeErr error) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := h.ledger.SettleDeposit(ctx, uow, deposit, chargeErr); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
