package discipline

import (
	"fmt"
	"strings"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/pkg/errs"
)

const (
	// VIPWarningLimit is the warning count at which a VIP loses the status instead of
	// moving towards termination.
	VIPWarningLimit = 2

	ReasonTooManyWarnings = "Too many warnings"
	ReasonMaxDemotions    = "Max demotions"
	ReasonTermination     = "Terminated by discipline"
)

// Action is a manager's performance decision.
type Action string

const (
	Demote Action = "DEMOTE"
	Bonus  Action = "BONUS"
)

// ParseAction accepts DEMOTE or BONUS in any case.
func ParseAction(s string) (Action, error) {
	switch a := Action(strings.ToUpper(strings.TrimSpace(s))); a {
	case Demote, Bonus:
		return a, nil
	default:
		return "", errs.NewValueIsInvalidErrorWithCause("action", fmt.Errorf("%q is not DEMOTE or BONUS", s))
	}
}

// AfterWarning decides the role-specific consequences of a warning that was just counted.
//
//   - Customer: VIP with 2+ warnings loses VIP (and the count is reset); otherwise 3+
//     warnings terminate and blacklist.
//   - Chef or delivery worker: 3+ warnings fire.
//   - Anyone else: nothing.
func AfterWarning(subject Subject) []Effect {
	switch s := subject.(type) {
	case CustomerSubject:
		count := s.Account.WarningCount()
		switch {
		case s.Customer.IsVIP() && count >= VIPWarningLimit:
			return []Effect{RevokeVIP{CustomerID: s.Customer.ID()}}
		case count >= account.WarningLimit:
			return []Effect{TerminateCustomer{CustomerID: s.Customer.ID()}}
		}
	case EmployeeSubject:
		if s.Account.WarningCount() >= account.WarningLimit && !s.Employee.IsFired() {
			return []Effect{FireEmployee{EmployeeID: s.Employee.ID(), Reason: ReasonTooManyWarnings}}
		}
	case StaffSubject:
	}
	return nil
}

// Termination lists the steps of terminating a customer. The refund is only reserved
// here; the money leaves after the cascade commits.
func Termination(user *account.User) []Effect {
	return []Effect{
		RefundBalance{CustomerID: user.ID(), Reason: ReasonTermination},
		BlacklistContact{Email: user.Email(), Phone: user.Phone()},
	}
}
