package discipline

import (
	"fmt"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
)

// Effect is one step of a discipline cascade.
type Effect interface {
	fmt.Stringer
	isEffect()
}

// IssueWarning appends a warning and re-evaluates the warned user.
type IssueWarning struct {
	UserID kernel.UUID
	Source account.WarningSource
	Reason string
}

// RevokeVIP removes VIP status and resets the warning count to zero.
type RevokeVIP struct {
	CustomerID kernel.UUID
}

// TerminateCustomer refunds, terminates and blacklists a customer.
type TerminateCustomer struct {
	CustomerID kernel.UUID
}

// RefundBalance pays a customer's whole positive balance back through the gateway.
type RefundBalance struct {
	CustomerID kernel.UUID
	Reason     string
}

// BlacklistContact bars the email and phone of a terminated customer.
type BlacklistContact struct {
	Email string
	Phone string
}

// FireEmployee terminates a chef or delivery worker and files a TERMINATION memo.
// ManagerID is nil when the system fires on its own.
type FireEmployee struct {
	EmployeeID kernel.UUID
	ManagerID  *kernel.UUID
	Reason     string
}

// SuspendUser blocks an account immediately (critical complaint escalation).
type SuspendUser struct {
	UserID kernel.UUID
}

// RecommendAction posts a demotion or bonus recommendation to the manager inbox.
type RecommendAction struct {
	EmployeeID kernel.UUID
	Action     Action
	Summary    string
}

func (e IssueWarning) String() string {
	return fmt.Sprintf("issue_warning(%s,%s)", e.UserID, e.Source)
}
func (e RevokeVIP) String() string { return fmt.Sprintf("revoke_vip(%s)", e.CustomerID) }
func (e TerminateCustomer) String() string {
	return fmt.Sprintf("terminate_customer(%s)", e.CustomerID)
}
func (e RefundBalance) String() string    { return fmt.Sprintf("refund_balance(%s)", e.CustomerID) }
func (e BlacklistContact) String() string { return "blacklist_contact" }
func (e FireEmployee) String() string     { return fmt.Sprintf("fire_employee(%s)", e.EmployeeID) }
func (e SuspendUser) String() string      { return fmt.Sprintf("suspend_user(%s)", e.UserID) }
func (e RecommendAction) String() string {
	return fmt.Sprintf("recommend_%s(%s)", e.Action, e.EmployeeID)
}

func (IssueWarning) isEffect()      {}
func (RevokeVIP) isEffect()         {}
func (TerminateCustomer) isEffect() {}
func (RefundBalance) isEffect()     {}
func (BlacklistContact) isEffect()  {}
func (FireEmployee) isEffect()      {}
func (SuspendUser) isEffect()       {}
func (RecommendAction) isEffect()   {}
