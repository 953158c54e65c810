// Package testdb opens throwaway in-memory SQLite databases carrying the full schema and
// seeds the accounts, menu items and knowledge entries tests need.
package testdb

import (
	"fmt"
	"testing"
	"time"

	"auctiondelivery/internal/adapters/out/postgres"
	"auctiondelivery/internal/adapters/out/postgres/accountrepo"
	"auctiondelivery/internal/adapters/out/postgres/catalogrepo"
	"auctiondelivery/internal/adapters/out/postgres/feedbackrepo"
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database private to the test. A single connection keeps every
// statement on the same in-memory database and serialises writers like a row lock would.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=0", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(postgres.Models()...))
	return db
}

// Seeder inserts fixtures directly, bypassing the business commands.
type Seeder struct {
	t  *testing.T
	db *gorm.DB
}

func NewSeeder(t *testing.T, db *gorm.DB) *Seeder {
	return &Seeder{t: t, db: db}
}

// CustomerOpts tweaks a seeded customer.
type CustomerOpts struct {
	Balance     string
	TotalOrders int
	TotalSpent  string
	VIP         bool
	Warnings    int
	// NoContact leaves email and phone empty.
	NoContact bool
}

func (s *Seeder) Customer(opts CustomerOpts) kernel.UUID {
	s.t.Helper()
	id := kernel.NewUUID()
	s.user(id, account.RoleCustomer, opts.Warnings)
	if opts.NoContact {
		require.NoError(s.t, s.db.Model(&accountrepo.UserDTO{}).Where("id = ?", id.Bytes()).
			Updates(map[string]any{"email": "", "phone": ""}).Error)
	}

	dto := accountrepo.CustomerDTO{
		ID:              id.Bytes(),
		BalanceCents:    money(opts.Balance).Cents(),
		TotalOrders:     opts.TotalOrders,
		TotalSpentCents: money(opts.TotalSpent).Cents(),
		IsVIP:           opts.VIP,
	}
	if opts.VIP {
		at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		dto.VIPActivatedAt = &at
	}
	require.NoError(s.t, s.db.Create(&dto).Error)
	return id
}

func (s *Seeder) Chef() kernel.UUID {
	return s.employee(account.RoleChef, 0)
}

func (s *Seeder) Delivery() kernel.UUID {
	return s.employee(account.RoleDelivery, 0)
}

// DeliveryWithRating seeds a delivery worker with stored rating statistics.
func (s *Seeder) DeliveryWithRating(avg float64, count int) kernel.UUID {
	s.t.Helper()
	id := s.employee(account.RoleDelivery, 0)
	require.NoError(s.t, s.db.Model(&accountrepo.EmployeeDTO{}).
		Where("id = ?", id.Bytes()).
		Updates(map[string]any{"avg_rating": avg, "rating_count": count}).Error)
	return id
}

// EmployeeWithWarnings seeds a chef or delivery worker that already carries warnings.
func (s *Seeder) EmployeeWithWarnings(role account.Role, warnings int) kernel.UUID {
	return s.employee(role, warnings)
}

func (s *Seeder) Manager() kernel.UUID {
	s.t.Helper()
	id := kernel.NewUUID()
	s.user(id, account.RoleManager, 0)
	return id
}

// MenuItem seeds an available menu item.
func (s *Seeder) MenuItem(chefID kernel.UUID, price string) kernel.UUID {
	s.t.Helper()
	id := kernel.NewUUID()
	require.NoError(s.t, s.db.Create(&catalogrepo.MenuItemDTO{
		ID:          id.Bytes(),
		ChefID:      chefID.Bytes(),
		Name:        "item " + id.String()[:8],
		PriceCents:  money(price).Cents(),
		IsAvailable: true,
	}).Error)
	return id
}

// SoldOut marks a menu item unavailable.
func (s *Seeder) SoldOut(itemID kernel.UUID) {
	s.t.Helper()
	require.NoError(s.t, s.db.Model(&catalogrepo.MenuItemDTO{}).
		Where("id = ?", itemID.Bytes()).Update("is_available", false).Error)
}

func (s *Seeder) KnowledgeEntry(question string) kernel.UUID {
	s.t.Helper()
	entry := feedback.KnowledgeEntry{ID: kernel.NewUUID(), Question: question, IsActive: true, UpdatedAt: time.Now()}
	require.NoError(s.t, feedbackrepo.NewGormKnowledgeRepository(s.db).AddEntry(s.t.Context(), &entry))
	return entry.ID
}

// Balance reads a customer's balance.
func (s *Seeder) Balance(customerID kernel.UUID) kernel.Money {
	s.t.Helper()
	var dto accountrepo.CustomerDTO
	require.NoError(s.t, s.db.First(&dto, "id = ?", customerID.Bytes()).Error)
	return kernel.MoneyFromCents(dto.BalanceCents)
}

// EmployeeBalance reads an employee's balance.
func (s *Seeder) EmployeeBalance(employeeID kernel.UUID) kernel.Money {
	s.t.Helper()
	var dto accountrepo.EmployeeDTO
	require.NoError(s.t, s.db.First(&dto, "id = ?", employeeID.Bytes()).Error)
	return kernel.MoneyFromCents(dto.BalanceCents)
}

// Count returns the number of rows of model matching the optional condition.
func (s *Seeder) Count(model any, query string, args ...any) int64 {
	s.t.Helper()
	var n int64
	tx := s.db.Model(model)
	if query != "" {
		tx = tx.Where(query, args...)
	}
	require.NoError(s.t, tx.Count(&n).Error)
	return n
}

func (s *Seeder) user(id kernel.UUID, role account.Role, warnings int) {
	s.t.Helper()
	short := id.String()[:8]
	require.NoError(s.t, s.db.Create(&accountrepo.UserDTO{
		ID:           id.Bytes(),
		Name:         role.String() + " " + short,
		Email:        short + "@example.com",
		Phone:        "+1555" + short,
		Role:         int(role),
		Status:       int(account.Active),
		WarningCount: warnings,
	}).Error)
}

func (s *Seeder) employee(role account.Role, warnings int) kernel.UUID {
	s.t.Helper()
	id := kernel.NewUUID()
	s.user(id, role, warnings)
	require.NoError(s.t, s.db.Create(&accountrepo.EmployeeDTO{
		ID:               id.Bytes(),
		Role:             int(role),
		EmploymentStatus: int(account.Employed),
		SalaryCents:      300000,
	}).Error)
	return id
}

func money(s string) kernel.Money {
	if s == "" {
		return kernel.ZeroMoney()
	}
	return kernel.MustMoney(s)
}
