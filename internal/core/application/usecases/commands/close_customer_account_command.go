package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrCloseCustomerAccountCommandIsNotConstructed = errors.New(
	"CloseCustomerAccountCommand must be created via NewCloseCustomerAccountCommand constructor",
)

type CloseCustomerAccountCommand struct { //nolint:recvcheck //using for validation
	managerID  kernel.UUID
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCloseCustomerAccountCommand(managerID, customerID kernel.UUID) (CloseCustomerAccountCommand, error) {
	if err := errors.Join(managerID.Validate(), customerID.Validate()); err != nil {
		return CloseCustomerAccountCommand{}, err
	}
	return CloseCustomerAccountCommand{
		managerID:  managerID,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CloseCustomerAccountCommand) Validate() error {
	return c.guard.Validate(ErrCloseCustomerAccountCommandIsNotConstructed)
}

func (c CloseCustomerAccountCommand) ManagerID() kernel.UUID  { return c.managerID }
func (c CloseCustomerAccountCommand) CustomerID() kernel.UUID { return c.customerID }
