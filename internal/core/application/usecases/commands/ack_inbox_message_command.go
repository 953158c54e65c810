package commands

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrAckInboxMessageCommandIsNotConstructed = errors.New(
	"AckInboxMessageCommand must be created via NewAckInboxMessageCommand constructor",
)

type AckInboxMessageCommand struct { //nolint:recvcheck //using for validation
	managerID kernel.UUID
	messageID kernel.UUID

	guard guard.ConstructorGuard
}

func NewAckInboxMessageCommand(managerID, messageID kernel.UUID) (AckInboxMessageCommand, error) {
	if err := errors.Join(managerID.Validate(), messageID.Validate()); err != nil {
		return AckInboxMessageCommand{}, err
	}
	return AckInboxMessageCommand{managerID: managerID, messageID: messageID, guard: guard.NewConstructorGuard()}, nil
}

func (c AckInboxMessageCommand) Validate() error {
	return c.guard.Validate(ErrAckInboxMessageCommandIsNotConstructed)
}

func (c AckInboxMessageCommand) ManagerID() kernel.UUID { return c.managerID }
func (c AckInboxMessageCommand) MessageID() kernel.UUID { return c.messageID }
