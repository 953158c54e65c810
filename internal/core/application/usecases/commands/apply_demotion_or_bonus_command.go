package commands

import (
	"errors"
	"strings"

	effects "auctiondelivery/internal/core/domain/model/discipline"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/guard"
)

var ErrApplyDemotionOrBonusCommandIsNotConstructed = errors.New(
	"ApplyDemotionOrBonusCommand must be created via NewApplyDemotionOrBonusCommand constructor",
)

// ApplyDemotionOrBonusCommand is a manager's performance decision. Both actions need a
// written memo.
type ApplyDemotionOrBonusCommand struct { //nolint:recvcheck //using for validation
	managerID  kernel.UUID
	employeeID kernel.UUID
	action     effects.Action
	memo       string

	guard guard.ConstructorGuard
}

func NewApplyDemotionOrBonusCommand(
	managerID, employeeID kernel.UUID,
	action string,
	memo string,
) (ApplyDemotionOrBonusCommand, error) {
	parsed, err := effects.ParseAction(action)
	memo = strings.TrimSpace(memo)
	var memoErr error
	if memo == "" {
		memoErr = feedback.ErrMemoRequired
	}
	if err = errors.Join(managerID.Validate(), employeeID.Validate(), err, memoErr); err != nil {
		return ApplyDemotionOrBonusCommand{}, err
	}
	return ApplyDemotionOrBonusCommand{
		managerID:  managerID,
		employeeID: employeeID,
		action:     parsed,
		memo:       memo,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c ApplyDemotionOrBonusCommand) Validate() error {
	return c.guard.Validate(ErrApplyDemotionOrBonusCommandIsNotConstructed)
}

func (c ApplyDemotionOrBonusCommand) ManagerID() kernel.UUID  { return c.managerID }
func (c ApplyDemotionOrBonusCommand) EmployeeID() kernel.UUID { return c.employeeID }
func (c ApplyDemotionOrBonusCommand) Action() effects.Action  { return c.action }
func (c ApplyDemotionOrBonusCommand) Memo() string            { return c.memo }
