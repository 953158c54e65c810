// Package ledgerrepo implements balance mutations as single conditional statements on the
// customers and employees tables, and stores the transactions log.
package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"auctiondelivery/internal/adapters/out/postgres/accountrepo"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/ledger"
	"auctiondelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Account     string     `gorm:"type:varchar(16);not null"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;index;not null"`
	Kind        string     `gorm:"type:varchar(32);not null"`
	AmountCents int64      `gorm:"not null"`
	Status      string     `gorm:"type:varchar(16);not null"`
	OrderID     *uuid.UUID `gorm:"type:uuid;index"`
	Detail      string     `gorm:"type:text"`
	CreatedAt   time.Time  `gorm:"not null"`
}

func (TransactionDTO) TableName() string {
	return "transactions"
}

// GormLedgerRepository implements ports.LedgerRepository.
type GormLedgerRepository struct {
	db *gorm.DB
}

func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

func (r *GormLedgerRepository) DebitCustomer(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error {
	cents := amount.Cents()
	result := r.db.WithContext(ctx).
		Model(&accountrepo.CustomerDTO{}).
		Where("id = ? AND balance_cents >= ?", customerID.Bytes(), cents).
		Update("balance_cents", gorm.Expr("balance_cents - ?", cents))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if err := r.requireCustomer(ctx, customerID); err != nil {
			return err
		}
		return ledger.ErrInsufficientBalance
	}
	return nil
}

func (r *GormLedgerRepository) CreditCustomer(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error {
	result := r.db.WithContext(ctx).
		Model(&accountrepo.CustomerDTO{}).
		Where("id = ?", customerID.Bytes()).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amount.Cents()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("customer", customerID.String())
	}
	return nil
}

func (r *GormLedgerRepository) CreditEmployee(ctx context.Context, employeeID kernel.UUID, amount kernel.Money) error {
	result := r.db.WithContext(ctx).
		Model(&accountrepo.EmployeeDTO{}).
		Where("id = ?", employeeID.Bytes()).
		Update("balance_cents", gorm.Expr("balance_cents + ?", amount.Cents()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("employee", employeeID.String())
	}
	return nil
}

// DrainCustomer reads the balance under a row lock and zeroes it.
func (r *GormLedgerRepository) DrainCustomer(ctx context.Context, customerID kernel.UUID) (kernel.Money, error) {
	var dto accountrepo.CustomerDTO
	err := r.db.WithContext(ctx).
		Clauses(accountrepo.LockingClause(r.db)...).
		First(&dto, "id = ?", customerID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.ZeroMoney(), errs.NewObjectNotFoundError("customer", customerID.String())
		}
		return kernel.ZeroMoney(), err
	}
	if dto.BalanceCents <= 0 {
		return kernel.ZeroMoney(), nil
	}

	result := r.db.WithContext(ctx).
		Model(&accountrepo.CustomerDTO{}).
		Where("id = ? AND balance_cents = ?", customerID.Bytes(), dto.BalanceCents).
		Update("balance_cents", 0)
	if result.Error != nil {
		return kernel.ZeroMoney(), result.Error
	}
	if result.RowsAffected == 0 {
		return kernel.ZeroMoney(), errs.NewVersionIsInvalidError("balance",
			errors.New("balance changed while it was being drained"))
	}
	return kernel.MoneyFromCents(dto.BalanceCents), nil
}

func (r *GormLedgerRepository) Record(ctx context.Context, tx ledger.Transaction) error {
	dto := TransactionDTO{
		ID:          tx.ID.Bytes(),
		Account:     string(tx.Account),
		OwnerID:     tx.OwnerID.Bytes(),
		Kind:        string(tx.Kind),
		AmountCents: tx.Amount.Cents(),
		Status:      string(tx.Status),
		OrderID:     kernel.OptionalUUIDToGoogle(tx.OrderID),
		Detail:      tx.Detail,
		CreatedAt:   tx.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormLedgerRepository) SettlePending(ctx context.Context, id kernel.UUID, status ledger.Status, detail string) error {
	updates := map[string]any{"status": string(status)}
	if detail != "" {
		updates["detail"] = detail
	}
	result := r.db.WithContext(ctx).
		Model(&TransactionDTO{}).
		Where("id = ? AND status = ?", id.Bytes(), string(ledger.StatusPending)).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewStateConflictError("transaction", "is not pending")
	}
	return nil
}

func (r *GormLedgerRepository) ListPending(
	ctx context.Context,
	kind ledger.Kind,
	cutoff time.Time,
	limit int,
) ([]ledger.Transaction, error) {
	var dtos []TransactionDTO
	err := r.db.WithContext(ctx).
		Where("kind = ? AND status = ? AND created_at < ?", string(kind), string(ledger.StatusPending), cutoff.UTC()).
		Order("created_at").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	txs := make([]ledger.Transaction, 0, len(dtos))
	for _, dto := range dtos {
		tx, err := dto.toDomain()
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (dto TransactionDTO) toDomain() (ledger.Transaction, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	ownerID, err := kernel.UUIDFromGoogle(dto.OwnerID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	orderID, err := kernel.OptionalUUIDFromGoogle(dto.OrderID)
	if err != nil {
		return ledger.Transaction{}, err
	}
	return ledger.Transaction{
		ID:        id,
		Account:   ledger.Account(dto.Account),
		OwnerID:   ownerID,
		Kind:      ledger.Kind(dto.Kind),
		Amount:    kernel.MoneyFromCents(dto.AmountCents),
		Status:    ledger.Status(dto.Status),
		OrderID:   orderID,
		Detail:    dto.Detail,
		CreatedAt: dto.CreatedAt.UTC(),
	}, nil
}

func (r *GormLedgerRepository) requireCustomer(ctx context.Context, customerID kernel.UUID) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&accountrepo.CustomerDTO{}).Where("id = ?", customerID.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("customer", customerID.String())
	}
	return nil
}
