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

// ApplyDemotionOrBonusCommandHandler cuts the salary by 20% or raises it by 10%. The
// second demotion fires the employee through the discipline engine.
type ApplyDemotionOrBonusCommandHandler struct {
	uowFactory UoWFactory
	discipline *discipline.Engine
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewApplyDemotionOrBonusCommandHandler(
	uowFactory UoWFactory,
	engine *discipline.Engine,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *ApplyDemotionOrBonusCommandHandler {
	return &ApplyDemotionOrBonusCommandHandler{
		uowFactory: uowFactory,
		discipline: engine,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *ApplyDemotionOrBonusCommandHandler) Handle(ctx context.Context, cmd ApplyDemotionOrBonusCommand) error {
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
	if err = manager.RequireRole(account.RoleManager, "apply demotion or bonus"); err != nil {
		return err
	}
	employee, err := uow.EmployeeRepository().Get(ctx, cmd.EmployeeID())
	if err != nil {
		return err
	}

	var (
		memoType     feedback.MemoType
		limitReached bool
	)
	switch cmd.Action() {
	case effects.Demote:
		memoType = feedback.MemoPerformanceDemote
		limitReached, err = employee.Demote()
	case effects.Bonus:
		memoType = feedback.MemoPerformanceBonus
		err = employee.Bonus()
	}
	if err != nil {
		return err
	}
	if err = uow.EmployeeRepository().Update(ctx, employee); err != nil {
		return err
	}

	managerID, employeeID := manager.ID(), employee.ID()
	memo, err := feedback.NewMemo(memoType, &managerID, &employeeID, nil, cmd.Memo(), h.clock.Now())
	if err != nil {
		return err
	}
	if err = uow.MemoRepository().Add(ctx, memo); err != nil {
		return err
	}

	var initial []effects.Effect
	if limitReached {
		initial = append(initial, effects.FireEmployee{
			EmployeeID: employeeID,
			ManagerID:  &managerID,
			Reason:     effects.ReasonMaxDemotions,
		})
	}
	outcome, err := h.discipline.Run(ctx, uow, initial...)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	notes := append([]ports.Notification{
		userNote(employeeID, "performance_action", map[string]any{
			"action": string(cmd.Action()),
			"salary": employee.Salary().String(),
		}),
	}, outcome.Notifications...)
	settleAfterCommit(ctx, h.discipline, h.uowFactory, h.notifier, outcome.Refunds, notes...)
	h.logger.InfoContext(ctx, "performance action applied",
		"employee_id", employeeID.String(), "action", string(cmd.Action()),
		"demotions", employee.DemotionCount(), "fired", limitReached)
	return nil
}
