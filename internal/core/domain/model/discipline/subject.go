package discipline

import (
	"auctiondelivery/internal/core/domain/model/account"
)

// Subject is the user a warning lands on, resolved to its role-specific profile.
// The set of variants is closed: CustomerSubject, EmployeeSubject and StaffSubject.
type Subject interface {
	User() *account.User
	isSubject()
}

// CustomerSubject is a warned customer.
type CustomerSubject struct {
	Account  *account.User
	Customer *account.Customer
}

// EmployeeSubject is a warned chef or delivery worker.
type EmployeeSubject struct {
	Account  *account.User
	Employee *account.Employee
}

// StaffSubject is any other role (managers). Warnings are recorded but trigger nothing.
type StaffSubject struct {
	Account *account.User
}

func (s CustomerSubject) User() *account.User { return s.Account }
func (s EmployeeSubject) User() *account.User { return s.Account }
func (s StaffSubject) User() *account.User    { return s.Account }

func (CustomerSubject) isSubject() {}
func (EmployeeSubject) isSubject() {}
func (StaffSubject) isSubject()    {}
