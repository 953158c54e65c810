package commands

import (
	"context"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/ports"
)

// AckInboxMessageCommandHandler marks a manager inbox message as read. It only needs the
// inbox and the user repository, so it takes the narrow InboxUoWFactory.
type AckInboxMessageCommandHandler struct {
	uowFactory InboxUoWFactory
	clock      ports.Clock
}

func NewAckInboxMessageCommandHandler(uowFactory InboxUoWFactory, clock ports.Clock) *AckInboxMessageCommandHandler {
	return &AckInboxMessageCommandHandler{uowFactory: uowFactory, clock: clock}
}

func (h *AckInboxMessageCommandHandler) Handle(ctx context.Context, cmd AckInboxMessageCommand) error {
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
	if err = manager.RequireRole(account.RoleManager, "acknowledge inbox message"); err != nil {
		return err
	}
	if err = uow.ManagerInbox().Ack(ctx, cmd.MessageID(), manager.ID(), h.clock.Now()); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
