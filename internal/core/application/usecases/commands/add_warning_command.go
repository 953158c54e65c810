package commands

import (
	"errors"
	"strings"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

var ErrAddWarningCommandIsNotConstructed = errors.New(
	"AddWarningCommand must be created via NewAddWarningCommand constructor",
)

// AddWarningCommand is a warning issued by hand by a manager.
type AddWarningCommand struct { //nolint:recvcheck //using for validation
	managerID kernel.UUID
	userID    kernel.UUID
	reason    string

	guard guard.ConstructorGuard
}

func NewAddWarningCommand(managerID, userID kernel.UUID, reason string) (AddWarningCommand, error) {
	reason = strings.TrimSpace(reason)
	var reasonErr error
	if reason == "" {
		reasonErr = errs.NewValueIsRequiredError("reason")
	}
	if err := errors.Join(managerID.Validate(), userID.Validate(), reasonErr); err != nil {
		return AddWarningCommand{}, err
	}
	return AddWarningCommand{managerID: managerID, userID: userID, reason: reason, guard: guard.NewConstructorGuard()}, nil
}

func (c AddWarningCommand) Validate() error {
	return c.guard.Validate(ErrAddWarningCommandIsNotConstructed)
}

func (c AddWarningCommand) ManagerID() kernel.UUID { return c.managerID }
func (c AddWarningCommand) UserID() kernel.UUID    { return c.userID }
func (c AddWarningCommand) Reason() string         { return c.reason }
