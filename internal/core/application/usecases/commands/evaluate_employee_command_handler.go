package commands

import (
	"context"

	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/application/reputation"
	"auctiondelivery/internal/core/domain/services"
	"auctiondelivery/internal/core/ports"
)

// EvaluateEmployeeCommandHandler reviews an employee's record and posts a recommendation
// to the manager inbox for every trigger that holds. Nothing is applied automatically.
type EvaluateEmployeeCommandHandler struct {
	uowFactory UoWFactory
	reputation *reputation.Engine
	discipline *discipline.Engine
	notifier   ports.Notifier
}

func NewEvaluateEmployeeCommandHandler(
	uowFactory UoWFactory,
	rep *reputation.Engine,
	engine *discipline.Engine,
	notifier ports.Notifier,
) *EvaluateEmployeeCommandHandler {
	return &EvaluateEmployeeCommandHandler{
		uowFactory: uowFactory,
		reputation: rep,
		discipline: engine,
		notifier:   notifier,
	}
}

func (h *EvaluateEmployeeCommandHandler) Handle(ctx context.Context, cmd EvaluateEmployeeCommand) (services.Evaluation, error) {
	if err := cmd.Validate(); err != nil {
		return services.Evaluation{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return services.Evaluation{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	res, err := h.reputation.EvaluateEmployee(ctx, uow, cmd.EmployeeID())
	if err != nil {
		return services.Evaluation{}, err
	}
	outcome, err := h.discipline.Run(ctx, uow, res.Effects...)
	if err != nil {
		return services.Evaluation{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return services.Evaluation{}, err
	}
	settleAfterCommit(ctx, h.discipline, h.uowFactory, h.notifier, outcome.Refunds, outcome.Notifications...)
	return res.Evaluation, nil
}
