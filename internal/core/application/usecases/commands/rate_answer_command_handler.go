package commands

import (
	"context"

	"auctiondelivery/internal/core/application/reputation"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/ports"
)

type RateAnswerCommandHandler struct {
	uowFactory UoWFactory
	reputation *reputation.Engine
	clock      ports.Clock
}

func NewRateAnswerCommandHandler(uowFactory UoWFactory, rep *reputation.Engine, clock ports.Clock) *RateAnswerCommandHandler {
	return &RateAnswerCommandHandler{uowFactory: uowFactory, reputation: rep, clock: clock}
}

// Handle returns the entry with its recomputed statistics.
func (h *RateAnswerCommandHandler) Handle(ctx context.Context, cmd RateAnswerCommand) (feedback.KnowledgeEntry, error) {
	if err := cmd.Validate(); err != nil {
		return feedback.KnowledgeEntry{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return feedback.KnowledgeEntry{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	user, err := uow.UserRepository().Get(ctx, cmd.UserID())
	if err != nil {
		return feedback.KnowledgeEntry{}, err
	}
	isVIP := false
	if user.Role() == account.RoleCustomer {
		customer, err := uow.CustomerRepository().Get(ctx, user.ID())
		if err != nil {
			return feedback.KnowledgeEntry{}, err
		}
		isVIP = customer.IsVIP()
	}

	rating, err := feedback.NewKnowledgeRating(cmd.EntryID(), user.ID(), cmd.Rating(), isVIP, h.clock.Now())
	if err != nil {
		return feedback.KnowledgeEntry{}, err
	}
	entry, err := h.reputation.RateAnswer(ctx, uow, rating)
	if err != nil {
		return feedback.KnowledgeEntry{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return feedback.KnowledgeEntry{}, err
	}
	return *entry, nil
}
