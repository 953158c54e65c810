// Package accountrepo persists users, customer and employee profiles, warnings and the
// contact blacklist. Enumerations are stored as their integer codes, money in cents.
package accountrepo

import (
	"time"

	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type UserDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name          string    `gorm:"type:varchar(255);not null"`
	Email         string    `gorm:"type:varchar(255);index"`
	Phone         string    `gorm:"type:varchar(32)"`
	Role          int       `gorm:"not null"`
	Status        int       `gorm:"not null"`
	WarningCount  int       `gorm:"not null;default:0"`
	IsBlacklisted bool      `gorm:"not null;default:false"`
	Suspended     bool      `gorm:"not null;default:false"`
}

func (UserDTO) TableName() string {
	return "users"
}

type CustomerDTO struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	BalanceCents    int64      `gorm:"not null;default:0"`
	TotalOrders     int        `gorm:"not null;default:0"`
	TotalSpentCents int64      `gorm:"not null;default:0"`
	IsVIP           bool       `gorm:"column:is_vip;not null;default:false"`
	VIPActivatedAt  *time.Time `gorm:"column:vip_activated_at"`
}

func (CustomerDTO) TableName() string {
	return "customers"
}

type EmployeeDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	Role             int       `gorm:"not null"`
	EmploymentStatus int       `gorm:"not null"`
	SalaryCents      int64     `gorm:"not null"`
	BalanceCents     int64     `gorm:"not null;default:0"`
	DemotionCount    int       `gorm:"not null;default:0"`
	AvgRating        float64   `gorm:"not null;default:0"`
	RatingCount      int       `gorm:"not null;default:0"`
	UpdatedAt        time.Time
}

func (EmployeeDTO) TableName() string {
	return "employees"
}

type WarningDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null"`
	Source    string    `gorm:"type:varchar(16);not null"`
	Reason    string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (WarningDTO) TableName() string {
	return "warnings"
}

type BlacklistEntryDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"type:varchar(255);index"`
	Phone     string    `gorm:"type:varchar(32);index"`
	CreatedAt time.Time `gorm:"not null"`
}

func (BlacklistEntryDTO) TableName() string {
	return "blacklist_entries"
}

func userFromDomain(u *account.User) UserDTO {
	return UserDTO{
		ID:            u.ID().Bytes(),
		Name:          u.Name(),
		Email:         u.Email(),
		Phone:         u.Phone(),
		Role:          int(u.Role()),
		Status:        int(u.Status()),
		WarningCount:  u.WarningCount(),
		IsBlacklisted: u.IsBlacklisted(),
		Suspended:     u.IsSuspended(),
	}
}

func userToDomain(dto UserDTO) (*account.User, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return account.RestoreUser(id, dto.Name, dto.Email, dto.Phone, account.Role(dto.Role),
		account.Status(dto.Status), dto.WarningCount, dto.IsBlacklisted, dto.Suspended)
}

func customerFromDomain(c *account.Customer) CustomerDTO {
	return CustomerDTO{
		ID:              c.ID().Bytes(),
		BalanceCents:    c.Balance().Cents(),
		TotalOrders:     c.TotalOrders(),
		TotalSpentCents: c.TotalSpent().Cents(),
		IsVIP:           c.IsVIP(),
		VIPActivatedAt:  c.VIPActivatedAt(),
	}
}

func customerToDomain(dto CustomerDTO) (*account.Customer, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return account.RestoreCustomer(id, kernel.MoneyFromCents(dto.BalanceCents), dto.TotalOrders,
		kernel.MoneyFromCents(dto.TotalSpentCents), dto.IsVIP, dto.VIPActivatedAt)
}

func employeeFromDomain(e *account.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:               e.ID().Bytes(),
		Role:             int(e.Role()),
		EmploymentStatus: int(e.Status()),
		SalaryCents:      e.Salary().Cents(),
		BalanceCents:     e.Balance().Cents(),
		DemotionCount:    e.DemotionCount(),
		AvgRating:        e.AvgRating(),
		RatingCount:      e.RatingCount(),
		UpdatedAt:        e.UpdatedAt(),
	}
}

func employeeToDomain(dto EmployeeDTO) (*account.Employee, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	return account.RestoreEmployee(id, account.Role(dto.Role), account.EmploymentStatus(dto.EmploymentStatus),
		kernel.MoneyFromCents(dto.SalaryCents), kernel.MoneyFromCents(dto.BalanceCents),
		dto.DemotionCount, dto.AvgRating, dto.RatingCount, dto.UpdatedAt)
}
