package account

import (
	"fmt"

	"auctiondelivery/internal/pkg/errs"
)

// Role is the function a user has in the system.
type Role int

const (
	UnknownRole Role = iota
	RoleCustomer
	RoleChef
	RoleDelivery
	RoleManager
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole:  "UNKNOWN",
		RoleCustomer: "CUSTOMER",
		RoleChef:     "CHEF",
		RoleDelivery: "DELIVERY",
		RoleManager:  "MANAGER",
	}
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "UNKNOWN"
}

func (r Role) Validate() error {
	if r <= UnknownRole || r > RoleManager {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

// IsEmployee reports whether the role is disciplined as staff (chef or delivery worker).
func (r Role) IsEmployee() bool {
	return r == RoleChef || r == RoleDelivery
}

// ParseRole converts a persisted role name.
func ParseRole(s string) (Role, error) {
	for r, name := range getRoleStrings() {
		if r != UnknownRole && name == s {
			return r, nil
		}
	}
	return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a valid role", s))
}

// Status is the account status of a user.
type Status int

const (
	UnknownStatus Status = iota
	Pending
	Active
	Rejected
	Terminated
	Closed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		UnknownStatus: "UNKNOWN",
		Pending:       "PENDING",
		Active:        "ACTIVE",
		Rejected:      "REJECTED",
		Terminated:    "TERMINATED",
		Closed:        "CLOSED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s <= UnknownStatus || s > Closed {
		return errs.NewValueIsInvalidErrorWithCause("user status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}
