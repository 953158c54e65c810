package commands

import (
	"errors"
	"strings"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var ErrFileComplaintCommandIsNotConstructed = errors.New(
	"FileComplaintCommand must be created via NewFileComplaintCommand constructor",
)

type FileComplaintCommand struct { //nolint:recvcheck //using for validation
	fromID        kernel.UUID
	againstID     kernel.UUID
	targetType    string
	complaintType string
	description   string
	orderID       *kernel.UUID

	guard guard.ConstructorGuard
}

func NewFileComplaintCommand(
	fromID, againstID kernel.UUID,
	targetType, complaintType, description string,
	orderID *kernel.UUID,
) (FileComplaintCommand, error) {
	errList := []error{fromID.Validate(), againstID.Validate()}
	if orderID != nil {
		errList = append(errList, orderID.Validate())
	}
	if strings.TrimSpace(complaintType) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("complaint_type"))
	}
	if err := errors.Join(errList...); err != nil {
		return FileComplaintCommand{}, err
	}
	return FileComplaintCommand{
		fromID:        fromID,
		againstID:     againstID,
		targetType:    targetType,
		complaintType: strings.TrimSpace(complaintType),
		description:   strings.TrimSpace(description),
		orderID:       orderID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c FileComplaintCommand) Validate() error {
	return c.guard.Validate(ErrFileComplaintCommandIsNotConstructed)
}

func (c FileComplaintCommand) FromID() kernel.UUID    { return c.fromID }
func (c FileComplaintCommand) AgainstID() kernel.UUID { return c.againstID }
func (c FileComplaintCommand) TargetType() string     { return c.targetType }
func (c FileComplaintCommand) ComplaintType() string  { return c.complaintType }
func (c FileComplaintCommand) Description() string    { return c.description }
func (c FileComplaintCommand) OrderID() *kernel.UUID  { return c.orderID }
