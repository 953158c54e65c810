package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/guard"
)

var ErrUpdateOrderStatusCommandIsNotConstructed = errors.New(
	"UpdateOrderStatusCommand must be created via NewUpdateOrderStatusCommand constructor",
)

// UpdateOrderStatusCommand is a delivery worker reporting pick-up or delivery.
type UpdateOrderStatusCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	orderID    kernel.UUID
	newStatus  order.Status

	guard guard.ConstructorGuard
}

func NewUpdateOrderStatusCommand(deliveryID, orderID kernel.UUID, newStatus order.Status) (UpdateOrderStatusCommand, error) {
	if err := errors.Join(deliveryID.Validate(), orderID.Validate(), newStatus.Validate()); err != nil {
		return UpdateOrderStatusCommand{}, err
	}
	return UpdateOrderStatusCommand{
		deliveryID: deliveryID,
		orderID:    orderID,
		newStatus:  newStatus,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderStatusCommandIsNotConstructed)
}

func (c UpdateOrderStatusCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c UpdateOrderStatusCommand) OrderID() kernel.UUID    { return c.orderID }
func (c UpdateOrderStatusCommand) NewStatus() order.Status { return c.newStatus }
