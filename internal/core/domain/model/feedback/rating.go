package feedback

import (
	"errors"
	"strings"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

const (
	MinScore = 1
	MaxScore = 5
)

// WeightFor returns the weight of a rating or complaint filed by a VIP (2) or anyone else (1).
func WeightFor(isVIP bool) int {
	if isVIP {
		return 2
	}
	return 1
}

// Rating is a customer's one-time rating of a delivered order.
type Rating struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	RaterID        kernel.UUID
	DeliveryID     *kernel.UUID
	FoodRating     int
	DeliveryRating int
	Weight         int
	Comment        string
	CreatedAt      time.Time
}

// NewRating validates both scores against [1,5].
func NewRating(
	orderID, raterID kernel.UUID,
	deliveryID *kernel.UUID,
	food, delivery int,
	raterIsVIP bool,
	comment string,
	at time.Time,
) (Rating, error) {
	if err := errors.Join(orderID.Validate(), raterID.Validate(), validateScore("food_rating", food),
		validateScore("delivery_rating", delivery)); err != nil {
		return Rating{}, err
	}
	return Rating{
		ID:             kernel.NewUUID(),
		OrderID:        orderID,
		RaterID:        raterID,
		DeliveryID:     deliveryID,
		FoodRating:     food,
		DeliveryRating: delivery,
		Weight:         WeightFor(raterIsVIP),
		Comment:        strings.TrimSpace(comment),
		CreatedAt:      at,
	}, nil
}

// IsAbusive reports the lowest possible score on both axes, the rating-abuse signal.
func (r Rating) IsAbusive() bool {
	return r.FoodRating == MinScore && r.DeliveryRating == MinScore
}

func validateScore(name string, v int) error {
	if v < MinScore || v > MaxScore {
		return errs.NewValueIsOutOfRangeError(name, v, MinScore, MaxScore)
	}
	return nil
}
