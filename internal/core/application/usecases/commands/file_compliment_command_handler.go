package commands

import (
	"context"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
)

type FileComplimentCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

func NewFileComplimentCommandHandler(uowFactory UoWFactory, notifier ports.Notifier, clock ports.Clock) *FileComplimentCommandHandler {
	return &FileComplimentCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

// Handle returns the compliment id. Compliments offset upheld complaints the next time
// the employee is evaluated.
func (h *FileComplimentCommandHandler) Handle(ctx context.Context, cmd FileComplimentCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if cmd.FromID().IsEqual(cmd.ToID()) {
		return kernel.UUID{}, errs.NewValueIsInvalidError("to_user_id")
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if _, err := uow.UserRepository().Get(ctx, cmd.FromID()); err != nil {
		return kernel.UUID{}, err
	}
	if _, err := uow.UserRepository().Get(ctx, cmd.ToID()); err != nil {
		return kernel.UUID{}, err
	}

	compliment, err := feedback.NewCompliment(cmd.FromID(), cmd.ToID(), cmd.Comment(), cmd.OrderID(), h.clock.Now())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.ComplimentRepository().Add(ctx, compliment); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	notifyAfterCommit(ctx, h.notifier, userNote(compliment.ToID, "compliment_received", map[string]any{
		"compliment_id": compliment.ID.String(),
	}))
	return compliment.ID, nil
}
