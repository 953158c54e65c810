package commands

import (
	"context"
	"log/slog"

	"auctiondelivery/internal/core/application/discipline"
	"auctiondelivery/internal/core/application/reputation"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"
)

// SubmitOrderRatingCommandHandler stores a customer's rating of a delivered order and
// runs the reputation pipeline in the same transaction: weighted averages of the chefs
// and the delivery worker, the rater abuse check, and the delivery worker's evaluation.
type SubmitOrderRatingCommandHandler struct {
	uowFactory UoWFactory
	reputation *reputation.Engine
	discipline *discipline.Engine
	notifier   ports.Notifier
	clock      ports.Clock
	logger     *slog.Logger
}

func NewSubmitOrderRatingCommandHandler(
	uowFactory UoWFactory,
	rep *reputation.Engine,
	engine *discipline.Engine,
	notifier ports.Notifier,
	clock ports.Clock,
	logger *slog.Logger,
) *SubmitOrderRatingCommandHandler {
	return &SubmitOrderRatingCommandHandler{
		uowFactory: uowFactory,
		reputation: rep,
		discipline: engine,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
	}
}

func (h *SubmitOrderRatingCommandHandler) Handle(ctx context.Context, cmd SubmitOrderRatingCommand) error {
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

	user, err := uow.UserRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}
	if err = user.RequireRole(account.RoleCustomer, "rate order"); err != nil {
		return err
	}
	customer, err := uow.CustomerRepository().Get(ctx, cmd.CustomerID())
	if err != nil {
		return err
	}

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}
	if !o.BelongsTo(customer.ID()) {
		return errs.NewPermissionDeniedError("rate order", "order belongs to another customer")
	}
	if o.Status() != order.Delivered {
		return errs.NewStateConflictError("order", "is "+o.Status().String()+", not delivered")
	}
	rated, err := uow.RatingRepository().ExistsForOrder(ctx, o.ID(), customer.ID())
	if err != nil {
		return err
	}
	if rated {
		return ErrAlreadyRated
	}

	rating, err := feedback.NewRating(o.ID(), customer.ID(), o.DeliveryID(),
		cmd.FoodRating(), cmd.DeliveryRating(), customer.IsVIP(), cmd.Comment(), h.clock.Now())
	if err != nil {
		return err
	}
	if err = uow.RatingRepository().Add(ctx, rating); err != nil {
		return err
	}

	res, err := h.reputation.UpdateEmployeeStats(ctx, uow, o, customer.ID())
	if err != nil {
		return err
	}
	outcome, err := h.discipline.Run(ctx, uow, res.Effects...)
	if err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	settleAfterCommit(ctx, h.discipline, h.uowFactory, h.notifier, outcome.Refunds,
		append(res.Notifications, outcome.Notifications...)...)
	h.logger.InfoContext(ctx, "order rated",
		"order_id", o.ID().String(), "weight", rating.Weight, "recommendations", len(res.Effects))
	return nil
}
