package commands

import (
	"errors"
	"fmt"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var ErrPlaceOrderCommandIsNotConstructed = errors.New(
	"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
)

// CartLine is one menu item and its quantity in a cart.
type CartLine struct {
	ItemID   kernel.UUID
	Quantity int
}

// PlaceOrderCommand asks to turn a customer's cart into a paid order.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(customerID, []CartLine{{ItemID: burgerID, Quantity: 2}})
//	if err != nil {
//	    return err
//	}
//	orderID, err := handler.Handle(ctx, cmd)
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	lines      []CartLine

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand rejects an empty cart and non-positive quantities.
func NewPlaceOrderCommand(customerID kernel.UUID, lines []CartLine) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setCustomerID(customerID),
		cmd.setLines(lines),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// Lines returns a copy of the cart.
func (c PlaceOrderCommand) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *PlaceOrderCommand) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.customerID = id
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []CartLine) error {
	if len(lines) == 0 {
		return errs.NewValueIsRequiredError("cart_items")
	}
	for i, l := range lines {
		if err := l.ItemID.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("cart_items[%d].item_id", i), err)
		}
		if l.Quantity <= 0 {
			return errs.NewValueIsOutOfRangeError(fmt.Sprintf("cart_items[%d].quantity", i), l.Quantity, 1, "unbounded")
		}
	}
	c.lines = append([]CartLine(nil), lines...)
	return nil
}
