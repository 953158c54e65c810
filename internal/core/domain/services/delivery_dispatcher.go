package services

import (
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"
)

// ErrNoDeliveryAvailable is returned when an order without bids has to be assigned but
// no delivery worker is free.
var ErrNoDeliveryAvailable = errs.NewResourceUnavailableError("delivery worker", "no delivery worker available")

// DeliveryDispatcher assigns an order directly when its auction produced no bids.
//
// Selection criteria:
//   - only delivery workers that are not fired are considered
//   - the highest weighted rating wins
//   - ties go to the worker with the most ratings, then to the smallest id
type DeliveryDispatcher struct{}

func NewDeliveryDispatcher() DeliveryDispatcher {
	return DeliveryDispatcher{}
}

// Dispatch picks a worker among the available ones and assigns the order to them.
func (d DeliveryDispatcher) Dispatch(o *order.Order, available []*account.Employee) (*account.Employee, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	best, err := d.findBest(available)
	if err != nil {
		return nil, err
	}

	if err = o.AssignDelivery(best.ID()); err != nil {
		return nil, err
	}
	return best, nil
}

func (DeliveryDispatcher) findBest(available []*account.Employee) (*account.Employee, error) {
	var best *account.Employee
	for _, e := range available {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if e.Role() != account.RoleDelivery || e.IsFired() {
			continue
		}
		if best == nil || better(e, best) {
			best = e
		}
	}
	if best == nil {
		return nil, ErrNoDeliveryAvailable
	}
	return best, nil
}

func better(a, b *account.Employee) bool {
	if a.AvgRating() != b.AvgRating() {
		return a.AvgRating() > b.AvgRating()
	}
	if a.RatingCount() != b.RatingCount() {
		return a.RatingCount() > b.RatingCount()
	}
	return a.ID().Less(b.ID())
}
