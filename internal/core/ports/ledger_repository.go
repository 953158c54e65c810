package ports

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/ledger"
)

// LedgerRepository performs balance mutations as single conditional statements and
// stores the transaction log that pairs with them.
type LedgerRepository interface {
	// DebitCustomer subtracts amount only if the balance covers it; otherwise it returns
	// ledger.ErrInsufficientBalance and changes nothing.
	DebitCustomer(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error

	CreditCustomer(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error

	CreditEmployee(ctx context.Context, employeeID kernel.UUID, amount kernel.Money) error

	// DrainCustomer sets the balance to zero and returns what it was, locking the row.
	DrainCustomer(ctx context.Context, customerID kernel.UUID) (kernel.Money, error)

	Record(ctx context.Context, tx ledger.Transaction) error

	// SettlePending moves a PENDING transaction to status. It returns a state conflict
	// when the transaction is no longer pending.
	SettlePending(ctx context.Context, id kernel.UUID, status ledger.Status, detail string) error

	// ListPending returns up to limit PENDING transactions of kind created before cutoff,
	// oldest first.
	ListPending(ctx context.Context, kind ledger.Kind, cutoff time.Time, limit int) ([]ledger.Transaction, error)
}
