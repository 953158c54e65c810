// Package ledger describes the audit records paired with every balance mutation.
package ledger

import (
	"fmt"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// ErrInsufficientBalance is returned when a debit would make a balance negative.
var ErrInsufficientBalance = errs.NewResourceUnavailableError("balance", "insufficient funds")

// Kind names the business reason of a balance movement.
type Kind string

const (
	KindDeposit        Kind = "DEPOSIT"
	KindOrderDebit     Kind = "ORDER_DEBIT"
	KindDeliveryCredit Kind = "DELIVERY_CREDIT"
	KindRefund         Kind = "REFUND"
)

// Status of the external leg of a transaction. Failed gateway calls are logged too.
// PENDING marks a balance already moved whose gateway call has not gone through yet.
type Status string

const (
	StatusPending Status = "PENDING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Account identifies which balance a transaction touched.
type Account string

const (
	CustomerAccount Account = "CUSTOMER"
	EmployeeAccount Account = "EMPLOYEE"
)

// Transaction is the audit record of a balance movement. Amount is always positive;
// the Kind says in which direction the balance moved.
type Transaction struct {
	ID        kernel.UUID
	Account   Account
	OwnerID   kernel.UUID
	Kind      Kind
	Amount    kernel.Money
	Status    Status
	OrderID   *kernel.UUID
	Detail    string
	CreatedAt time.Time
}

func NewTransaction(
	account Account,
	ownerID kernel.UUID,
	kind Kind,
	amount kernel.Money,
	status Status,
	orderID *kernel.UUID,
	detail string,
	at time.Time,
) (Transaction, error) {
	if err := ownerID.Validate(); err != nil {
		return Transaction{}, err
	}
	if !amount.IsPositive() {
		return Transaction{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}
	return Transaction{
		ID:        kernel.NewUUID(),
		Account:   account,
		OwnerID:   ownerID,
		Kind:      kind,
		Amount:    amount.Round2(),
		Status:    status,
		OrderID:   orderID,
		Detail:    detail,
		CreatedAt: at,
	}, nil
}

// IsCredit reports whether the kind increases the balance.
func (k Kind) IsCredit() bool {
	return k == KindDeposit || k == KindDeliveryCredit || k == KindRefund
}
