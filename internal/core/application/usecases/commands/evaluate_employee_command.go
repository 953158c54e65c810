package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrEvaluateEmployeeCommandIsNotConstructed = errors.New(
	"EvaluateEmployeeCommand must be created via NewEvaluateEmployeeCommand constructor",
)

type EvaluateEmployeeCommand struct { //nolint:recvcheck //using for validation
	employeeID kernel.UUID

	guard guard.ConstructorGuard
}

func NewEvaluateEmployeeCommand(employeeID kernel.UUID) (EvaluateEmployeeCommand, error) {
	if err := employeeID.Validate(); err != nil {
		return EvaluateEmployeeCommand{}, err
	}
	return EvaluateEmployeeCommand{employeeID: employeeID, guard: guard.NewConstructorGuard()}, nil
}

func (c EvaluateEmployeeCommand) Validate() error {
	return c.guard.Validate(ErrEvaluateEmployeeCommandIsNotConstructed)
}

func (c EvaluateEmployeeCommand) EmployeeID() kernel.UUID {
	return c.employeeID
}
