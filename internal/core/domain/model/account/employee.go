package account

import (
	"errors"
	"fmt"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// MaxDemotions is the number of demotions after which an employee is fired.
const MaxDemotions = 2

var (
	ErrEmployeeIsNotConstructed = errors.New("Employee must be created via NewEmployee constructor")

	ErrEmployeeFired = errs.NewStateConflictError("employee", "already fired")

	demotionFactor = decimal.RequireFromString("0.8")
	bonusFactor    = decimal.RequireFromString("1.1")
)

// EmploymentStatus tracks the standing of chefs and delivery workers.
type EmploymentStatus int

const (
	UnknownEmployment EmploymentStatus = iota
	Employed
	Demoted
	Fired
)

func (s EmploymentStatus) String() string {
	switch s {
	case Employed:
		return "ACTIVE"
	case Demoted:
		return "DEMOTED"
	case Fired:
		return "FIRED"
	default:
		return "UNKNOWN"
	}
}

// Employee is the staff profile of a chef or delivery worker.
type Employee struct {
	id            kernel.UUID
	role          Role
	status        EmploymentStatus
	salary        kernel.Money
	balance       kernel.Money
	demotionCount int
	avgRating     float64
	ratingCount   int
	updatedAt     time.Time

	isConstructed bool
}

func NewEmployee(id kernel.UUID, role Role, salary kernel.Money) (*Employee, error) {
	return RestoreEmployee(id, role, Employed, salary, kernel.ZeroMoney(), 0, 0, 0, time.Time{})
}

func RestoreEmployee(
	id kernel.UUID,
	role Role,
	status EmploymentStatus,
	salary, balance kernel.Money,
	demotionCount int,
	avgRating float64,
	ratingCount int,
	updatedAt time.Time,
) (*Employee, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if !role.IsEmployee() {
		return nil, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%s is not an employee role", role))
	}
	if status <= UnknownEmployment || status > Fired {
		return nil, errs.NewValueIsInvalidErrorWithCause("employment_status", fmt.Errorf("%d is not valid", status))
	}
	if salary.IsNegative() || balance.IsNegative() {
		return nil, errs.NewValueIsInvalidError("salary and balance must not be negative")
	}
	return &Employee{
		id:            id,
		role:          role,
		status:        status,
		salary:        salary,
		balance:       balance,
		demotionCount: demotionCount,
		avgRating:     avgRating,
		ratingCount:   ratingCount,
		updatedAt:     updatedAt,
		isConstructed: true,
	}, nil
}

func (e *Employee) Validate() error {
	if e == nil || !e.isConstructed {
		return ErrEmployeeIsNotConstructed
	}
	return nil
}

func (e *Employee) ID() kernel.UUID          { return e.id }
func (e *Employee) Role() Role               { return e.role }
func (e *Employee) Status() EmploymentStatus { return e.status }
func (e *Employee) Salary() kernel.Money     { return e.salary }
func (e *Employee) Balance() kernel.Money    { return e.balance }
func (e *Employee) DemotionCount() int       { return e.demotionCount }
func (e *Employee) AvgRating() float64       { return e.avgRating }
func (e *Employee) RatingCount() int         { return e.ratingCount }
func (e *Employee) UpdatedAt() time.Time     { return e.updatedAt }
func (e *Employee) IsFired() bool            { return e.status == Fired }

// Demote cuts the salary by 20% and returns whether the demotion limit was reached.
func (e *Employee) Demote() (bool, error) {
	if e.IsFired() {
		return false, ErrEmployeeFired
	}
	e.status = Demoted
	e.demotionCount++
	e.salary = e.salary.Mul(demotionFactor).Round2()
	return e.demotionCount >= MaxDemotions, nil
}

// Bonus raises the salary by 10%.
func (e *Employee) Bonus() error {
	if e.IsFired() {
		return ErrEmployeeFired
	}
	e.salary = e.salary.Mul(bonusFactor).Round2()
	return nil
}

// Fire is idempotent.
func (e *Employee) Fire() {
	e.status = Fired
}

// UpdateRatingStats stores the recomputed weighted average.
func (e *Employee) UpdateRatingStats(avg float64, count int, at time.Time) {
	e.avgRating = avg
	e.ratingCount = count
	e.updatedAt = at
}
