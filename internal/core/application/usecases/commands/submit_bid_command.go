package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var ErrSubmitBidCommandIsNotConstructed = errors.New(
	"SubmitBidCommand must be created via NewSubmitBidCommand constructor",
)

// SubmitBidCommand is a delivery worker's offer on an order in auction.
type SubmitBidCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	orderID    kernel.UUID
	amount     kernel.Money
	etaMinutes int

	guard guard.ConstructorGuard
}

func NewSubmitBidCommand(deliveryID, orderID kernel.UUID, amount kernel.Money, etaMinutes int) (SubmitBidCommand, error) {
	cmd := SubmitBidCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		deliveryID.Validate(),
		orderID.Validate(),
		cmd.setAmount(amount),
		cmd.setETA(etaMinutes),
	); err != nil {
		return SubmitBidCommand{}, err
	}

	cmd.deliveryID = deliveryID
	cmd.orderID = orderID
	return cmd, nil
}

func (c SubmitBidCommand) Validate() error {
	return c.guard.Validate(ErrSubmitBidCommandIsNotConstructed)
}

func (c SubmitBidCommand) DeliveryID() kernel.UUID { return c.deliveryID }
func (c SubmitBidCommand) OrderID() kernel.UUID    { return c.orderID }
func (c SubmitBidCommand) Amount() kernel.Money    { return c.amount }
func (c SubmitBidCommand) ETAMinutes() int         { return c.etaMinutes }

func (c *SubmitBidCommand) setAmount(amount kernel.Money) error {
	if !amount.IsPositive() {
		return errs.NewValueIsOutOfRangeError("amount", amount.String(), "0 (exclusive)", "unbounded")
	}
	c.amount = amount
	return nil
}

func (c *SubmitBidCommand) setETA(eta int) error {
	if eta < 1 {
		return errs.NewValueIsOutOfRangeError("eta_minutes", eta, 1, "unbounded")
	}
	c.etaMinutes = eta
	return nil
}
