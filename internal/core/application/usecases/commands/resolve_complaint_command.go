package commands

import (
	"errors"
	"strings"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrResolveComplaintCommandIsNotConstructed = errors.New(
	"ResolveComplaintCommand must be created via NewResolveComplaintCommand constructor",
)

// ResolveComplaintCommand is a manager's ruling on a pending complaint. A critical upheld
// complaint suspends the accused on top of the warning.
type ResolveComplaintCommand struct { //nolint:recvcheck //using for validation
	managerID   kernel.UUID
	complaintID kernel.UUID
	decision    feedback.Decision
	note        string
	isCritical  bool

	guard guard.ConstructorGuard
}

func NewResolveComplaintCommand(
	managerID, complaintID kernel.UUID,
	decision string,
	note string,
	isCritical bool,
) (ResolveComplaintCommand, error) {
	d := feedback.Decision(strings.ToUpper(strings.TrimSpace(decision)))
	if err := errors.Join(managerID.Validate(), complaintID.Validate(), d.Validate()); err != nil {
		return ResolveComplaintCommand{}, err
	}
	return ResolveComplaintCommand{
		managerID:   managerID,
		complaintID: complaintID,
		decision:    d,
		note:        strings.TrimSpace(note),
		isCritical:  isCritical,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c ResolveComplaintCommand) Validate() error {
	return c.guard.Validate(ErrResolveComplaintCommandIsNotConstructed)
}

func (c ResolveComplaintCommand) ManagerID() kernel.UUID      { return c.managerID }
func (c ResolveComplaintCommand) ComplaintID() kernel.UUID    { return c.complaintID }
func (c ResolveComplaintCommand) Decision() feedback.Decision { return c.decision }
func (c ResolveComplaintCommand) Note() string                { return c.note }
func (c ResolveComplaintCommand) IsCritical() bool            { return c.isCritical }
