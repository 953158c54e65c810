package queries

import (
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var (
	ErrGetOrderDetailsQueryIsNotConstructed = errors.New(
		"GetOrderDetailsQuery must be created via NewGetOrderDetailsQuery constructor",
	)
)

// GetOrderDetailsQuery reads one order with its lines.
//
// Example:
//
//	query, err := NewGetOrderDetailsQuery(orderID)
//	if err != nil {
//	    return err
//	}
//	details, err := handler.Handle(ctx, query)
type GetOrderDetailsQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetOrderDetailsQuery(orderID kernel.UUID) (GetOrderDetailsQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderDetailsQuery{}, err
	}
	return GetOrderDetailsQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderDetailsQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderDetailsQueryIsNotConstructed)
}

func (q GetOrderDetailsQuery) OrderID() kernel.UUID { return q.orderID }

// OrderLine is one item of an order as it was priced at placement.
type OrderLine struct {
	ItemID    kernel.UUID
	ChefID    kernel.UUID
	Quantity  int
	UnitPrice kernel.Money
}

// GetOrderDetailsQueryResponse is the customer-facing view of an order.
type GetOrderDetailsQueryResponse struct {
	ID             kernel.UUID
	CustomerID     kernel.UUID
	DeliveryID     *kernel.UUID
	Status         string
	TotalPrice     kernel.Money
	DiscountRate   string
	IsFreeDelivery bool
	DeliveryFee    kernel.Money
	CreatedAt      time.Time
	PickedUpAt     *time.Time
	DeliveredAt    *time.Time
	Items          []OrderLine
}
