package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/domain/model/account"
	effects "auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/ports"
)

// ResolveComplaintCommandHandler records the manager's decision. Upholding runs the
// discipline cascade for the accused within the same transaction.
type ResolveComplaintCommandHandler struct {
	uowFactory UoWFactory
	discipline *discipline.Engine
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewResolveComplaintCommandHandler(
	uowFactory UoWFactory,
	engine *discipline.Engine,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *ResolveComplaintCommandHandler {
	return &ResolveComplaintCommandHandler{
		uowFactory: uowFactory,
		discipline: engine,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *ResolveComplaintCommandHandler) Handle(ctx context.Context, cmd ResolveComplaintCommand) error {
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
	if err = manager.RequireRole(account.RoleManager, "resolve complaint"); err != nil {
		return err
	}

	complaint, err := uow.ComplaintRepository().Get(ctx, cmd.ComplaintID())
	if err != nil {
		return err
	}
	if err = complaint.Resolve(manager.ID(), cmd.Decision(), cmd.Note(), h.clock.Now()); err != nil {
		return err
	}
	if err = uow.ComplaintRepository().Update(ctx, complaint); err != nil {
		return err
	}

	var initial []effects.Effect
	if cmd.Decision() == feedback.Uphold {
		initial = append(initial, effects.IssueWarning{
			UserID: complaint.AgainstID,
			Source: account.WarningFromComplaint,
			Reason: "complaint upheld: " + complaint.ComplaintType,
		})
		if cmd.IsCritical() {
			initial = append(initial, effects.SuspendUser{UserID: complaint.AgainstID})
		}
	}
	outcome, err := h.discipline.Run(ctx, uow, initial...)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notes := append([]ports.Notification{
		userNote(complaint.FromID, "complaint_resolved", map[string]any{
			"complaint_id": complaint.ID.String(),
			"status":       string(complaint.Status),
		}),
	}, outcome.Notifications...)
	settleAfterCommit(ctx, h.discipline, h.uowFactory, h.notifier, outcome.Refunds, notes...)
	h.logger.InfoContext(ctx, "complaint resolved",
		"complaint_id", complaint.ID.String(), "status", string(complaint.Status),
		"critical", cmd.IsCritical(), "effects", len(outcome.Applied))
	return nil
}
