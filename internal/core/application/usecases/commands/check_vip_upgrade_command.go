package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrCheckVIPUpgradeCommandIsNotConstructed = errors.New(
	"CheckVIPUpgradeCommand must be created via NewCheckVIPUpgradeCommand constructor",
)

type CheckVIPUpgradeCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCheckVIPUpgradeCommand(customerID kernel.UUID) (CheckVIPUpgradeCommand, error) {
	if err := customerID.Validate(); err != nil {
		return CheckVIPUpgradeCommand{}, err
	}
	return CheckVIPUpgradeCommand{customerID: customerID, guard: guard.NewConstructorGuard()}, nil
}

func (c CheckVIPUpgradeCommand) Validate() error {
	return c.guard.Validate(ErrCheckVIPUpgradeCommandIsNotConstructed)
}

func (c CheckVIPUpgradeCommand) CustomerID() kernel.UUID {
	return c.customerID
}
