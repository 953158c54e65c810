package commands

import (
	"errors"
	"fmt"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var ErrCloseBiddingCommandIsNotConstructed = errors.New(
	"CloseBiddingCommand must be created via NewCloseBiddingCommand constructor",
)

// CloseBiddingCommand closes an order's bidding window. Timers and the sweep job send it
// with reason timeout; managers may close a window early with reason manual.
type CloseBiddingCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	reason    auction.CloseReason
	managerID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewCloseBiddingCommand(orderID kernel.UUID, reason auction.CloseReason) (CloseBiddingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return CloseBiddingCommand{}, err
	}
	switch reason {
	case auction.ClosedByTimeout, auction.ClosedManually:
	default:
		return CloseBiddingCommand{}, errs.NewValueIsInvalidErrorWithCause(
			"reason", fmt.Errorf("%q cannot be requested", string(reason)))
	}
	return CloseBiddingCommand{orderID: orderID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

// NewManualCloseBiddingCommand is a manager closing a window before its deadline.
func NewManualCloseBiddingCommand(managerID, orderID kernel.UUID) (CloseBiddingCommand, error) {
	if err := managerID.Validate(); err != nil {
		return CloseBiddingCommand{}, err
	}
	cmd, err := NewCloseBiddingCommand(orderID, auction.ClosedManually)
	if err != nil {
		return CloseBiddingCommand{}, err
	}
	cmd.managerID = &managerID
	return cmd, nil
}

func (c CloseBiddingCommand) Validate() error {
	return c.guard.Validate(ErrCloseBiddingCommandIsNotConstructed)
}

func (c CloseBiddingCommand) OrderID() kernel.UUID        { return c.orderID }
func (c CloseBiddingCommand) Reason() auction.CloseReason { return c.reason }

// ManagerID is set when a manager asked for the close.
func (c CloseBiddingCommand) ManagerID() *kernel.UUID { return c.managerID }
