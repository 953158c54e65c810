package accountrepo

import (
	"context"
	"errors"
	"strings"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockingClause is SELECT ... FOR UPDATE on PostgreSQL. SQLite has no row locks; its
// single writer gives the same guarantee.
func LockingClause(db *gorm.DB) []clause.Expression {
	if db.Dialector.Name() == "sqlite" {
		return nil
	}
	return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormUserRepository implements ports.UserRepository.
type GormUserRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormUserRepository(db *gorm.DB, tracker aggregateTracker) *GormUserRepository {
	return &GormUserRepository{db: db, tracker: tracker}
}

// Add stores a new user. Registration is owned by another service; Add exists for
// seeding and tests.
func (r *GormUserRepository) Add(ctx context.Context, user *account.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	dto := userFromDomain(user)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormUserRepository) Get(ctx context.Context, id kernel.UUID) (*account.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}
	return userToDomain(dto)
}

// GetForUpdate loads the user and holds its row lock until the transaction ends, so a
// read-modify-write of the warning counter cannot interleave with another one.
func (r *GormUserRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*account.User, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto UserDTO
	err := r.db.WithContext(ctx).
		Clauses(LockingClause(r.db)...).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id.String())
		}
		return nil, err
	}
	return userToDomain(dto)
}

func (r *GormUserRepository) Update(ctx context.Context, user *account.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	dto := userFromDomain(user)
	result := r.db.WithContext(ctx).
		Model(&UserDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"status":         dto.Status,
			"warning_count":  dto.WarningCount,
			"is_blacklisted": dto.IsBlacklisted,
			"suspended":      dto.Suspended,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.tracker.TrackAggregate(user.ID(), user)
	return nil
}

// GormCustomerRepository implements ports.CustomerRepository.
type GormCustomerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormCustomerRepository(db *gorm.DB, tracker aggregateTracker) *GormCustomerRepository {
	return &GormCustomerRepository{db: db, tracker: tracker}
}

func (r *GormCustomerRepository) Add(ctx context.Context, customer *account.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	dto := customerFromDomain(customer)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*account.Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto CustomerDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("customer", id.String())
		}
		return nil, err
	}
	return customerToDomain(dto)
}

func (r *GormCustomerRepository) UpdateVIP(ctx context.Context, customer *account.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&CustomerDTO{}).
		Where("id = ?", customer.ID().Bytes()).
		Updates(map[string]any{
			"is_vip":           customer.IsVIP(),
			"vip_activated_at": customer.VIPActivatedAt(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.tracker.TrackAggregate(customer.ID(), customer)
	return nil
}

func (r *GormCustomerRepository) RecordOrder(ctx context.Context, id kernel.UUID, total kernel.Money) error {
	result := r.db.WithContext(ctx).
		Model(&CustomerDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{
			"total_orders":      gorm.Expr("total_orders + 1"),
			"total_spent_cents": gorm.Expr("total_spent_cents + ?", total.Cents()),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("customer", id.String())
	}
	return nil
}

// GormEmployeeRepository implements ports.EmployeeRepository.
type GormEmployeeRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormEmployeeRepository(db *gorm.DB, tracker aggregateTracker) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db, tracker: tracker}
}

func (r *GormEmployeeRepository) Add(ctx context.Context, employee *account.Employee) error {
	if err := employee.Validate(); err != nil {
		return err
	}
	dto := employeeFromDomain(employee)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormEmployeeRepository) Get(ctx context.Context, id kernel.UUID) (*account.Employee, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	var dto EmployeeDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("employee", id.String())
		}
		return nil, err
	}
	return employeeToDomain(dto)
}

// Update never touches the balance column; balances move only through the ledger.
func (r *GormEmployeeRepository) Update(ctx context.Context, employee *account.Employee) error {
	if err := employee.Validate(); err != nil {
		return err
	}
	dto := employeeFromDomain(employee)
	result := r.db.WithContext(ctx).
		Model(&EmployeeDTO{}).
		Where("id = ?", dto.ID).
		Updates(map[string]any{
			"employment_status": dto.EmploymentStatus,
			"salary_cents":      dto.SalaryCents,
			"demotion_count":    dto.DemotionCount,
			"avg_rating":        dto.AvgRating,
			"rating_count":      dto.RatingCount,
			"updated_at":        dto.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	r.tracker.TrackAggregate(employee.ID(), employee)
	return nil
}

func (r *GormEmployeeRepository) ListAvailableDelivery(ctx context.Context) ([]*account.Employee, error) {
	var dtos []EmployeeDTO
	err := r.db.WithContext(ctx).Raw(`
		SELECT e.*
		FROM employees e
		JOIN users u ON u.id = e.id
		WHERE e.role = ?
		  AND e.employment_status <> ?
		  AND u.status = ?
		  AND u.suspended = ?
		  AND NOT EXISTS (
			SELECT 1 FROM orders o
			WHERE o.delivery_id = e.id AND o.status IN (?, ?)
		  )
		ORDER BY e.id
	`, int(account.RoleDelivery), int(account.Fired), int(account.Active), false,
		int(order.ReadyForDelivery), int(order.OutForDelivery)).
		Scan(&dtos).Error
	if err != nil {
		return nil, err
	}

	employees := make([]*account.Employee, 0, len(dtos))
	for _, dto := range dtos {
		e, err := employeeToDomain(dto)
		if err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, nil
}

// GormWarningRepository implements ports.WarningRepository.
type GormWarningRepository struct {
	db *gorm.DB
}

func NewGormWarningRepository(db *gorm.DB) *GormWarningRepository {
	return &GormWarningRepository{db: db}
}

func (r *GormWarningRepository) Add(ctx context.Context, w account.Warning) error {
	dto := WarningDTO{
		ID:        w.ID.Bytes(),
		UserID:    w.UserID.Bytes(),
		Source:    string(w.Source),
		Reason:    w.Reason,
		CreatedAt: w.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

// GormBlacklistRepository implements ports.BlacklistRepository.
type GormBlacklistRepository struct {
	db *gorm.DB
}

func NewGormBlacklistRepository(db *gorm.DB) *GormBlacklistRepository {
	return &GormBlacklistRepository{db: db}
}

func (r *GormBlacklistRepository) AddIfAbsent(ctx context.Context, entry account.BlacklistEntry) (bool, error) {
	listed, err := r.Contains(ctx, entry.Email, entry.Phone)
	if err != nil || listed {
		return false, err
	}
	dto := BlacklistEntryDTO{
		ID:        entry.ID.Bytes(),
		Email:     entry.Email,
		Phone:     entry.Phone,
		CreatedAt: entry.CreatedAt.UTC(),
	}
	if err = r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return false, err
	}
	return true, nil
}

// Contains matches on email (case-insensitive) or phone; empty values never match.
func (r *GormBlacklistRepository) Contains(ctx context.Context, email, phone string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)
	if email == "" && phone == "" {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).
		Model(&BlacklistEntryDTO{}).
		Where("(email <> '' AND email = ?) OR (phone <> '' AND phone = ?)", email, phone).
		Count(&count).Error
	return count > 0, err
}
