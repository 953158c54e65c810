package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrOpenBiddingCommandIsNotConstructed = errors.New(
	"OpenBiddingCommand must be created via NewOpenBiddingCommand constructor",
)

// OpenBiddingCommand moves a placed order into its delivery auction.
type OpenBiddingCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewOpenBiddingCommand(orderID kernel.UUID) (OpenBiddingCommand, error) {
	if err := orderID.Validate(); err != nil {
		return OpenBiddingCommand{}, err
	}
	return OpenBiddingCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (c OpenBiddingCommand) Validate() error {
	return c.guard.Validate(ErrOpenBiddingCommandIsNotConstructed)
}

func (c OpenBiddingCommand) OrderID() kernel.UUID {
	return c.orderID
}
