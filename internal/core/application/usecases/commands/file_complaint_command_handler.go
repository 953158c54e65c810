package commands

import (
	"context"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
)

// FileComplaintCommandHandler stores a PENDING complaint. Complaints filed by VIP
// customers weigh double.
type FileComplaintCommandHandler struct {
	uowFactory UoWFactory
	notifier   ports.Notifier
	clock      ports.Clock
}

func NewFileComplaintCommandHandler(uowFactory UoWFactory, notifier ports.Notifier, clock ports.Clock) *FileComplaintCommandHandler {
	return &FileComplaintCommandHandler{uowFactory: uowFactory, notifier: notifier, clock: clock}
}

// Handle returns the complaint id.
func (h *FileComplaintCommandHandler) Handle(ctx context.Context, cmd FileComplaintCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	filer, err := uow.UserRepository().Get(ctx, cmd.FromID())
	if err != nil {
		return kernel.UUID{}, err
	}
	if _, err = uow.UserRepository().Get(ctx, cmd.AgainstID()); err != nil {
		return kernel.UUID{}, err
	}
	if cmd.OrderID() != nil {
		if _, err = uow.OrderRepository().Get(ctx, *cmd.OrderID()); err != nil {
			return kernel.UUID{}, err
		}
	}
	filerIsVIP, err := isVIP(ctx, uow, filer)
	if err != nil {
		return kernel.UUID{}, err
	}

	complaint, err := feedback.NewComplaint(filer.ID(), cmd.AgainstID(), cmd.TargetType(), cmd.ComplaintType(),
		cmd.Description(), cmd.OrderID(), filerIsVIP, h.clock.Now())
	if err != nil {
		return kernel.UUID{}, err
	}
	if err = uow.ComplaintRepository().Add(ctx, complaint); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	notifyAfterCommit(ctx, h.notifier, managersNote("complaint_filed", map[string]any{
		"complaint_id": complaint.ID.String(),
		"against_id":   complaint.AgainstID.String(),
		"weight":       complaint.Weight,
	}))
	return complaint.ID, nil
}

func isVIP(ctx context.Context, uow UoW, user *account.User) (bool, error) {
	if user.Role() != account.RoleCustomer {
		return false, nil
	}
	customer, err := uow.CustomerRepository().Get(ctx, user.ID())
	if err != nil {
		return false, err
	}
	return customer.IsVIP(), nil
}
