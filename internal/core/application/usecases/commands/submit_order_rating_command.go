package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var (
	ErrSubmitOrderRatingCommandIsNotConstructed = errors.New(
		"SubmitOrderRatingCommand must be created via NewSubmitOrderRatingCommand constructor",
	)

	// ErrAlreadyRated is returned for a second rating of the same order by the same customer.
	ErrAlreadyRated = errs.NewStateConflictError("rating", "order already rated")
)

type SubmitOrderRatingCommand struct { //nolint:recvcheck //using for validation
	customerID     kernel.UUID
	orderID        kernel.UUID
	foodRating     int
	deliveryRating int
	comment        string

	guard guard.ConstructorGuard
}

// NewSubmitOrderRatingCommand checks both scores against [1,5].
func NewSubmitOrderRatingCommand(
	customerID, orderID kernel.UUID,
	foodRating, deliveryRating int,
	comment string,
) (SubmitOrderRatingCommand, error) {
	if err := errors.Join(
		customerID.Validate(),
		orderID.Validate(),
		checkScore("food_rating", foodRating),
		checkScore("delivery_rating", deliveryRating),
	); err != nil {
		return SubmitOrderRatingCommand{}, err
	}
	return SubmitOrderRatingCommand{
		customerID:     customerID,
		orderID:        orderID,
		foodRating:     foodRating,
		deliveryRating: deliveryRating,
		comment:        comment,
		guard:          guard.NewConstructorGuard(),
	}, nil
}

func (c SubmitOrderRatingCommand) Validate() error {
	return c.guard.Validate(ErrSubmitOrderRatingCommandIsNotConstructed)
}

func (c SubmitOrderRatingCommand) CustomerID() kernel.UUID { return c.customerID }
func (c SubmitOrderRatingCommand) OrderID() kernel.UUID    { return c.orderID }
func (c SubmitOrderRatingCommand) FoodRating() int         { return c.foodRating }
func (c SubmitOrderRatingCommand) DeliveryRating() int     { return c.deliveryRating }
func (c SubmitOrderRatingCommand) Comment() string         { return c.comment }

func checkScore(name string, v int) error {
	if v < feedback.MinScore || v > feedback.MaxScore {
		return errs.NewValueIsOutOfRangeError(name, v, feedback.MinScore, feedback.MaxScore)
	}
	return nil
}
