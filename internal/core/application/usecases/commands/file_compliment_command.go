package commands

import (
	"errors"
	"strings"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrFileComplimentCommandIsNotConstructed = errors.New(
	"FileComplimentCommand must be created via NewFileComplimentCommand constructor",
)

type FileComplimentCommand struct { //nolint:recvcheck //using for validation
	fromID  kernel.UUID
	toID    kernel.UUID
	comment string
	orderID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewFileComplimentCommand(fromID, toID kernel.UUID, comment string, orderID *kernel.UUID) (FileComplimentCommand, error) {
	errList := []error{fromID.Validate(), toID.Validate()}
	if orderID != nil {
		errList = append(errList, orderID.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return FileComplimentCommand{}, err
	}
	return FileComplimentCommand{
		fromID:  fromID,
		toID:    toID,
		comment: strings.TrimSpace(comment),
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c FileComplimentCommand) Validate() error {
	return c.guard.Validate(ErrFileComplimentCommandIsNotConstructed)
}

func (c FileComplimentCommand) FromID() kernel.UUID   { return c.fromID }
func (c FileComplimentCommand) ToID() kernel.UUID     { return c.toID }
func (c FileComplimentCommand) Comment() string       { return c.comment }
func (c FileComplimentCommand) OrderID() *kernel.UUID { return c.orderID }
