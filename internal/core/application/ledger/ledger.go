// Package ledger is the money-conservation authority: every balance mutation of a
// customer or employee goes through it, paired with a transaction log entry in the same
// unit of work. Gateway calls happen outside any transaction: deposits are charged before
// the crediting transaction opens, refunds are reserved PENDING inside it and paid with
// exponential backoff once it has committed.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	ledgertx "auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
)

// MinDeposit is the smallest amount a customer may deposit.
var MinDeposit = kernel.MustMoney("10")

const (
	defaultRefundRetries = 4

	// defaultPendingGrace keeps the retry away from refunds their own command is still
	// paying.
	defaultPendingGrace = 5 * time.Minute
)

// Books is the part of a unit of work the ledger writes to.
type Books interface {
	LedgerRepository() ports.LedgerRepository
}

type Ledger struct {
	gateway       ports.PaymentGateway
	clock         ports.Clock
	logger        *slog.Logger
	refundRetries uint64
	pendingGrace  time.Duration
	newBackOff    func() backoff.BackOff
}

type Option func(*Ledger)

// WithRefundRetries sets how many times a failed refund is retried.
func WithRefundRetries(n uint64) Option {
	return func(l *Ledger) { l.refundRetries = n }
}

// WithPendingGrace sets how old a PENDING refund must be before RetryPendingRefunds
// picks it up.
func WithPendingGrace(d time.Duration) Option {
	return func(l *Ledger) { l.pendingGrace = d }
}

// WithBackOff replaces the exponential backoff between refund attempts.
func WithBackOff(factory func() backoff.BackOff) Option {
	return func(l *Ledger) { l.newBackOff = factory }
}

func NewLedger(gateway ports.PaymentGateway, clock ports.Clock, logger *slog.Logger, opts ...Option) (*Ledger, error) {
	if gateway == nil {
		return nil, errs.NewValueIsRequiredError("gateway")
	}
	if clock == nil {
		return nil, errs.NewValueIsRequiredError("clock")
	}
	if logger == nil {
		logger = slog.Default()
	}
	l := &Ledger{
		gateway:       gateway,
		clock:         clock,
		logger:        logger.With("component", "ledger"),
		refundRetries: defaultRefundRetries,
		pendingGrace:  defaultPendingGrace,
		newBackOff: func() backoff.BackOff {
			return backoff.NewExponentialBackOff()
		},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// DebitForOrder takes an order total from the customer's balance. The debit is a single
// conditional statement, so two concurrent placements can never both pass the check.
func (l *Ledger) DebitForOrder(
	ctx context.Context,
	books Books,
	customerID, orderID kernel.UUID,
	amount kernel.Money,
) error {
	repo := books.LedgerRepository()
	if err := repo.DebitCustomer(ctx, customerID, amount); err != nil {
		return err
	}
	return l.record(ctx, repo, ledgertx.CustomerAccount, customerID, ledgertx.KindOrderDebit,
		amount, ledgertx.StatusSuccess, &orderID, "order placement")
}

// CreditDelivery pays the delivery price of an order to its delivery worker. Free
// deliveries move no money and leave no log entry.
func (l *Ledger) CreditDelivery(
	ctx context.Context,
	books Books,
	deliveryID, orderID kernel.UUID,
	amount kernel.Money,
) error {
	if !amount.IsPositive() {
		return nil
	}
	repo := books.LedgerRepository()
	if err := repo.CreditEmployee(ctx, deliveryID, amount); err != nil {
		return err
	}
	return l.record(ctx, repo, ledgertx.EmployeeAccount, deliveryID, ledgertx.KindDeliveryCredit,
		amount, ledgertx.StatusSuccess, &orderID, "delivery completed")
}

// ValidateDeposit checks the deposit amount before any gateway call.
func (l *Ledger) ValidateDeposit(amount kernel.Money) error {
	if amount.LessThan(MinDeposit) {
		return errs.NewValueIsOutOfRangeError("amount", amount.String(), MinDeposit.String(), "unbounded")
	}
	return nil
}

// Charge asks the gateway for the money of a deposit. It must be called outside any
// transaction.
func (l *Ledger) Charge(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error {
	if err := l.gateway.Charge(ctx, customerID, amount); err != nil {
		l.logger.WarnContext(ctx, "deposit charge failed",
			"customer_id", customerID.String(), "amount", amount.String(), "error", err)
		return errs.NewExternalFailureError("payment gateway", err)
	}
	return nil
}

// Deposit is a deposit logged PENDING before its gateway charge.
type Deposit struct {
	TransactionID kernel.UUID
	CustomerID    kernel.UUID
	Amount        kernel.Money
}

// OpenDeposit logs a PENDING deposit. The caller commits it before calling Charge, so a
// charge whose settlement is lost still leaves a record to reconcile.
func (l *Ledger) OpenDeposit(
	ctx context.Context,
	books Books,
	customerID kernel.UUID,
	amount kernel.Money,
) (Deposit, error) {
	tx, err := ledgertx.NewTransaction(ledgertx.CustomerAccount, customerID, ledgertx.KindDeposit,
		amount, ledgertx.StatusPending, nil, "deposit", l.clock.Now())
	if err != nil {
		return Deposit{}, err
	}
	if err = books.LedgerRepository().Record(ctx, tx); err != nil {
		return Deposit{}, err
	}
	return Deposit{TransactionID: tx.ID, CustomerID: customerID, Amount: tx.Amount}, nil
}

// SettleDeposit writes the outcome of a Charge. A failed charge marks the deposit FAILED
// and leaves the balance untouched; a successful one credits the balance and marks it
// SUCCESS.
func (l *Ledger) SettleDeposit(ctx context.Context, books Books, deposit Deposit, chargeErr error) error {
	repo := books.LedgerRepository()
	if chargeErr != nil {
		return repo.SettlePending(ctx, deposit.TransactionID, ledgertx.StatusFailed, chargeErr.Error())
	}
	if err := repo.CreditCustomer(ctx, deposit.CustomerID, deposit.Amount); err != nil {
		return err
	}
	return repo.SettlePending(ctx, deposit.TransactionID, ledgertx.StatusSuccess, "")
}

// Refund is a drained balance logged PENDING and not yet paid out by the gateway.
type Refund struct {
	TransactionID kernel.UUID
	CustomerID    kernel.UUID
	Amount        kernel.Money
}

// ReserveRefund drains the customer's balance and logs the amount as a PENDING refund in
// the caller's unit of work. No money leaves until PayRefund runs after the commit. A zero
// balance reserves nothing and returns ok=false.
func (l *Ledger) ReserveRefund(
	ctx context.Context,
	books Books,
	customerID kernel.UUID,
	reason string,
) (Refund, bool, error) {
	repo := books.LedgerRepository()
	amount, err := repo.DrainCustomer(ctx, customerID)
	if err != nil {
		return Refund{}, false, err
	}
	if !amount.IsPositive() {
		return Refund{}, false, nil
	}

	tx, err := ledgertx.NewTransaction(ledgertx.CustomerAccount, customerID, ledgertx.KindRefund,
		amount, ledgertx.StatusPending, nil, reason, l.clock.Now())
	if err != nil {
		return Refund{}, false, err
	}
	if err = repo.Record(ctx, tx); err != nil {
		return Refund{}, false, err
	}
	return Refund{TransactionID: tx.ID, CustomerID: customerID, Amount: tx.Amount}, true, nil
}

// PayRefund sends a reserved refund through the gateway, retrying with backoff, and marks
// it SUCCESS. It must run after the reserving transaction committed. When every attempt
// fails the refund stays PENDING for RetryPendingRefunds and an ExternalFailure is
// returned.
func (l *Ledger) PayRefund(ctx context.Context, books Books, refund Refund) error {
	attempt := 0
	pay := func() error {
		attempt++
		err := l.gateway.Refund(ctx, refund.CustomerID, refund.Amount)
		if err != nil {
			l.logger.WarnContext(ctx, "refund attempt failed",
				"customer_id", refund.CustomerID.String(), "amount", refund.Amount.String(),
				"attempt", attempt, "error", err)
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(l.newBackOff(), l.refundRetries), ctx)
	if err := backoff.Retry(pay, policy); err != nil {
		l.logger.ErrorContext(ctx, "refund left pending after retries",
			"transaction_id", refund.TransactionID.String(), "customer_id", refund.CustomerID.String(),
			"amount", refund.Amount.String(), "attempts", attempt)
		return errs.NewExternalFailureError("payment gateway",
			fmt.Errorf("refund of %s after %d attempts: %w", refund.Amount, attempt, err))
	}

	if err := books.LedgerRepository().SettlePending(ctx, refund.TransactionID, ledgertx.StatusSuccess, ""); err != nil {
		// The money is out; only the log entry lags behind.
		l.logger.ErrorContext(ctx, "refund paid but not marked settled",
			"transaction_id", refund.TransactionID.String(), "error", err)
		return err
	}
	return nil
}

// RetryPendingRefunds pays up to limit refunds left PENDING by earlier failures and
// reports how many went through. Refunds younger than the pending grace are skipped.
func (l *Ledger) RetryPendingRefunds(ctx context.Context, books Books, limit int) (int, error) {
	cutoff := l.clock.Now().Add(-l.pendingGrace)
	pending, err := books.LedgerRepository().ListPending(ctx, ledgertx.KindRefund, cutoff, limit)
	if err != nil {
		return 0, err
	}

	var errList []error
	paid := 0
	for _, tx := range pending {
		refund := Refund{TransactionID: tx.ID, CustomerID: tx.OwnerID, Amount: tx.Amount}
		if err = l.PayRefund(ctx, books, refund); err != nil {
			errList = append(errList, err)
			continue
		}
		paid++
	}
	return paid, errors.Join(errList...)
}

func (l *Ledger) record(
	ctx context.Context,
	repo ports.LedgerRepository,
	account ledgertx.Account,
	ownerID kernel.UUID,
	kind ledgertx.Kind,
	amount kernel.Money,
	status ledgertx.Status,
	orderID *kernel.UUID,
	detail string,
) error {
	tx, err := ledgertx.NewTransaction(account, ownerID, kind, amount, status, orderID, detail, l.clock.Now())
	if err != nil {
		return err
	}
	return repo.Record(ctx, tx)
}
