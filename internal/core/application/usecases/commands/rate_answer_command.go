package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var ErrRateAnswerCommandIsNotConstructed = errors.New(
	"RateAnswerCommand must be created via NewRateAnswerCommand constructor",
)

// RateAnswerCommand scores a knowledge-base answer from 0 to 5; 0 flags it as wrong.
type RateAnswerCommand struct { //nolint:recvcheck //using for validation
	userID  kernel.UUID
	entryID kernel.UUID
	rating  int

	guard guard.ConstructorGuard
}

func NewRateAnswerCommand(userID, entryID kernel.UUID, rating int) (RateAnswerCommand, error) {
	if err := errors.Join(userID.Validate(), entryID.Validate()); err != nil {
		return RateAnswerCommand{}, err
	}
	if rating < 0 || rating > feedback.MaxScore {
		return RateAnswerCommand{}, errs.NewValueIsOutOfRangeError("rating", rating, 0, feedback.MaxScore)
	}
	return RateAnswerCommand{userID: userID, entryID: entryID, rating: rating, guard: guard.NewConstructorGuard()}, nil
}

func (c RateAnswerCommand) Validate() error {
	return c.guard.Validate(ErrRateAnswerCommandIsNotConstructed)
}

func (c RateAnswerCommand) UserID() kernel.UUID  { return c.userID }
func (c RateAnswerCommand) EntryID() kernel.UUID { return c.entryID }
func (c RateAnswerCommand) Rating() int          { return c.rating }
