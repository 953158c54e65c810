package account

import (
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// WarningLimit is the warning count at which customers are terminated and employees fired.
const WarningLimit = 3

var (
	ErrUserIsNotConstructed = errors.New("User must be created via NewUser constructor")

	ErrAccountInactive  = errs.NewPermissionDeniedError("place order", "account is not active")
	ErrAccountSuspended = errs.NewPermissionDeniedError("place order", "account is suspended")
)

// User is the identity shared by customers, chefs, delivery workers and managers.
type User struct {
	id            kernel.UUID
	name          string
	email         string
	phone         string
	role          Role
	status        Status
	warningCount  int
	isBlacklisted bool
	suspended     bool

	isConstructed bool
}

// NewUser creates an active user. Registration and approval live outside this service,
// so users reach it already approved.
func NewUser(id kernel.UUID, name, email, phone string, role Role) (*User, error) {
	return RestoreUser(id, name, email, phone, role, Active, 0, false, false)
}

// RestoreUser rebuilds a persisted user.
func RestoreUser(
	id kernel.UUID,
	name, email, phone string,
	role Role,
	status Status,
	warningCount int,
	isBlacklisted, suspended bool,
) (*User, error) {
	if err := errors.Join(id.Validate(), role.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if warningCount < 0 {
		return nil, errs.NewValueIsOutOfRangeError("warning_count", warningCount, 0, "unbounded")
	}
	return &User{
		id:            id,
		name:          name,
		email:         email,
		phone:         phone,
		role:          role,
		status:        status,
		warningCount:  warningCount,
		isBlacklisted: isBlacklisted,
		suspended:     suspended,
		isConstructed: true,
	}, nil
}

func (u *User) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrUserIsNotConstructed
	}
	return nil
}

func (u *User) ID() kernel.UUID     { return u.id }
func (u *User) Name() string        { return u.name }
func (u *User) Email() string       { return u.email }
func (u *User) Phone() string       { return u.phone }
func (u *User) Role() Role          { return u.role }
func (u *User) Status() Status      { return u.status }
func (u *User) WarningCount() int   { return u.warningCount }
func (u *User) IsBlacklisted() bool { return u.isBlacklisted }
func (u *User) IsSuspended() bool   { return u.suspended }

// RequireRole returns a PermissionDeniedError unless the user has role.
func (u *User) RequireRole(role Role, action string) error {
	if u.role != role {
		return errs.NewPermissionDeniedError(action, "requires role "+role.String())
	}
	return nil
}

// CanPlaceOrders checks the ordering preconditions: active, not suspended and under the
// warning limit.
func (u *User) CanPlaceOrders() error {
	if u.status != Active {
		return ErrAccountInactive
	}
	if u.suspended || u.warningCount >= WarningLimit {
		return ErrAccountSuspended
	}
	return nil
}

// CanBid checks that a delivery worker account may take part in auctions.
func (u *User) CanBid() error {
	if err := u.RequireRole(RoleDelivery, "submit bid"); err != nil {
		return err
	}
	if u.status != Active || u.suspended {
		return errs.NewPermissionDeniedError("submit bid", "account is not active")
	}
	return nil
}

// AddWarning increments the warning counter and returns the new count.
func (u *User) AddWarning() int {
	u.warningCount++
	return u.warningCount
}

// ResetWarnings clears the counter (the VIP second chance).
func (u *User) ResetWarnings() {
	u.warningCount = 0
}

// Terminate ends the account. Customers terminated by the discipline cascade are also
// blacklisted.
func (u *User) Terminate(blacklist bool) {
	u.status = Terminated
	if blacklist {
		u.isBlacklisted = true
	}
}

// Close ends a customer account at a manager's request.
func (u *User) Close() {
	u.status = Closed
}

// Suspend blocks the account immediately, independently of the warning count.
func (u *User) Suspend() {
	u.suspended = true
}
