package queries

import (
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var (
	ErrGetActiveOrdersQueryIsNotConstructed = errors.New(
		"GetActiveOrdersQuery must be created via NewGetActiveOrdersQuery constructor",
	)

	// ErrDeliveredIsNotActive rejects a Delivered status filter.
	ErrDeliveredIsNotActive = errs.NewValueIsInvalidErrorWithCause("status",
		errors.New("delivered orders are not active"))
)

// GetActiveOrdersQuery lists orders that are not delivered yet, oldest first. A manager
// uses it to find orders whose auction closed without an assignment.
//
// Example:
//
//	query, err := NewGetActiveOrdersQuery(&awaiting)
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
type GetActiveOrdersQuery struct {
	status *order.Status

	guard guard.ConstructorGuard
}

// NewGetActiveOrdersQuery accepts an optional status filter. Delivered orders are never
// active, so filtering on Delivered is rejected.
func NewGetActiveOrdersQuery(status *order.Status) (GetActiveOrdersQuery, error) {
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetActiveOrdersQuery{}, err
		}
		if *status == order.Delivered {
			return GetActiveOrdersQuery{}, ErrDeliveredIsNotActive
		}
	}
	return GetActiveOrdersQuery{status: status, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetActiveOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetActiveOrdersQueryIsNotConstructed)
}

func (q GetActiveOrdersQuery) Status() *order.Status { return q.status }

// GetActiveOrdersQueryResponse is one row of the manager's order board.
type GetActiveOrdersQueryResponse struct {
	ID         kernel.UUID
	CustomerID kernel.UUID
	DeliveryID *kernel.UUID
	Status     string
	CreatedAt  time.Time
}
