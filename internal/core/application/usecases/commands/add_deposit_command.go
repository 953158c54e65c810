package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrAddDepositCommandIsNotConstructed = errors.New(
	"AddDepositCommand must be created via NewAddDepositCommand constructor",
)

// AddDepositCommand tops up a customer's balance through the payment gateway. The
// minimum amount is checked by the handler's ledger.
type AddDepositCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	amount     kernel.Money

	guard guard.ConstructorGuard
}

func NewAddDepositCommand(customerID kernel.UUID, amount kernel.Money) (AddDepositCommand, error) {
	if err := customerID.Validate(); err != nil {
		return AddDepositCommand{}, err
	}
	return AddDepositCommand{customerID: customerID, amount: amount, guard: guard.NewConstructorGuard()}, nil
}

func (c AddDepositCommand) Validate() error {
	return c.guard.Validate(ErrAddDepositCommandIsNotConstructed)
}

func (c AddDepositCommand) CustomerID() kernel.UUID { return c.customerID }
func (c AddDepositCommand) Amount() kernel.Money    { return c.amount }
