package commands

import (
	"errors"
	"strings"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrAssignDeliveryCommandIsNotConstructed = errors.New(
	"AssignDeliveryCommand must be created via NewAssignDeliveryCommand constructor",
)

// AssignDeliveryCommand is a manager's choice of delivery worker for an order. Without a
// selected bid the order goes to the best available worker, which only works when the
// auction drew no bids.
type AssignDeliveryCommand struct { //nolint:recvcheck //using for validation
	managerID     kernel.UUID
	orderID       kernel.UUID
	selectedBidID *kernel.UUID
	memo          string

	guard guard.ConstructorGuard
}

func NewAssignDeliveryCommand(
	managerID, orderID kernel.UUID,
	selectedBidID *kernel.UUID,
	memo string,
) (AssignDeliveryCommand, error) {
	errList := []error{managerID.Validate(), orderID.Validate()}
	if selectedBidID != nil {
		errList = append(errList, selectedBidID.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return AssignDeliveryCommand{}, err
	}

	return AssignDeliveryCommand{
		managerID:     managerID,
		orderID:       orderID,
		selectedBidID: selectedBidID,
		memo:          strings.TrimSpace(memo),
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c AssignDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrAssignDeliveryCommandIsNotConstructed)
}

func (c AssignDeliveryCommand) ManagerID() kernel.UUID      { return c.managerID }
func (c AssignDeliveryCommand) OrderID() kernel.UUID        { return c.orderID }
func (c AssignDeliveryCommand) SelectedBidID() *kernel.UUID { return c.selectedBidID }
func (c AssignDeliveryCommand) Memo() string                { return c.memo }
