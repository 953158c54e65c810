package ports

import (
	"context"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
)

// UserRepository persists the shared identity of every role.
type UserRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*account.User, error)

	// GetForUpdate is Get plus a row lock held until the unit of work ends. Use it before
	// any Update that depends on the warning count.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*account.User, error)

	// Update writes status, warning count, blacklist and suspension flags.
	Update(ctx context.Context, user *account.User) error
}

// CustomerRepository persists customer profiles. Balances are not written here; see
// LedgerRepository.
type CustomerRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*account.Customer, error)

	// UpdateVIP writes is_vip and vip_activated_at.
	UpdateVIP(ctx context.Context, customer *account.Customer) error

	// RecordOrder atomically adds one order and its total to the customer aggregates.
	RecordOrder(ctx context.Context, id kernel.UUID, total kernel.Money) error
}

// EmployeeRepository persists chef and delivery worker profiles.
type EmployeeRepository interface {
	Get(ctx context.Context, id kernel.UUID) (*account.Employee, error)

	// Update writes employment status, salary, demotion count and rating statistics.
	Update(ctx context.Context, employee *account.Employee) error

	// ListAvailableDelivery returns delivery workers that are active, not fired, not
	// suspended, and not assigned to an undelivered order.
	ListAvailableDelivery(ctx context.Context) ([]*account.Employee, error)
}

// WarningRepository appends warnings.
type WarningRepository interface {
	Add(ctx context.Context, warning account.Warning) error
}

// BlacklistRepository stores barred contacts.
type BlacklistRepository interface {
	// AddIfAbsent stores the entry unless its email or phone is already listed.
	AddIfAbsent(ctx context.Context, entry account.BlacklistEntry) (bool, error)

	Contains(ctx context.Context, email, phone string) (bool, error)
}
