package commands

import (
	"context"

	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/domain/model/account"
	effects "auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/ports"
)

// AddWarningCommandHandler warns a user on a manager's behalf and runs whatever the
// warning sets off: VIP loss, termination or firing.
type AddWarningCommandHandler struct {
	uowFactory UoWFactory
	discipline *discipline.Engine
	notifier   ports.Notifier
}

func NewAddWarningCommandHandler(uowFactory UoWFactory, engine *discipline.Engine, notifier ports.Notifier) *AddWarningCommandHandler {
	return &AddWarningCommandHandler{uowFactory: uowFactory, discipline: engine, notifier: notifier}
}

func (h *AddWarningCommandHandler) Handle(ctx context.Context, cmd AddWarningCommand) error {
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

	manager, err := uow.UserRepository().Get(ctx, cmd.ManagerID())
	if err != nil {
		return err
	}
	if err = manager.RequireRole(account.RoleManager, "add warning"); err != nil {
		return err
	}

	outcome, err := h.discipline.Run(ctx, uow, effects.IssueWarning{
		UserID: cmd.UserID(),
		Source: account.WarningFromManager,
		Reason: cmd.Reason(),
	})
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}
	settleAfterCommit(ctx, h.discipline, h.uowFactory, h.notifier, outcome.Refunds, outcome.Notifications...)
	return nil
}
