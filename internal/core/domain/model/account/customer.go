package account

import (
	"errors"
	"fmt"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer constructor")

// Customer is the ordering profile of a user. The balance is mutated only by the ledger
// through conditional updates; the aggregate carries the last read value.
type Customer struct {
	id             kernel.UUID
	balance        kernel.Money
	totalOrders    int
	totalSpent     kernel.Money
	isVIP          bool
	vipActivatedAt *time.Time

	isConstructed bool
}

func NewCustomer(id kernel.UUID) (*Customer, error) {
	return RestoreCustomer(id, kernel.ZeroMoney(), 0, kernel.ZeroMoney(), false, nil)
}

func RestoreCustomer(
	id kernel.UUID,
	balance kernel.Money,
	totalOrders int,
	totalSpent kernel.Money,
	isVIP bool,
	vipActivatedAt *time.Time,
) (*Customer, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if balance.IsNegative() {
		return nil, errs.NewValueIsInvalidErrorWithCause("balance", fmt.Errorf("%s is negative", balance))
	}
	if totalOrders < 0 {
		return nil, errs.NewValueIsOutOfRangeError("total_orders", totalOrders, 0, "unbounded")
	}
	return &Customer{
		id:             id,
		balance:        balance,
		totalOrders:    totalOrders,
		totalSpent:     totalSpent,
		isVIP:          isVIP,
		vipActivatedAt: vipActivatedAt,
		isConstructed:  true,
	}, nil
}

func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

func (c *Customer) ID() kernel.UUID            { return c.id }
func (c *Customer) Balance() kernel.Money      { return c.balance }
func (c *Customer) TotalOrders() int           { return c.totalOrders }
func (c *Customer) TotalSpent() kernel.Money   { return c.totalSpent }
func (c *Customer) IsVIP() bool                { return c.isVIP }
func (c *Customer) VIPActivatedAt() *time.Time { return c.vipActivatedAt }

// NextOrderHasFreeDelivery applies the every-third-order rule for VIPs, counting the
// order about to be placed.
func (c *Customer) NextOrderHasFreeDelivery() bool {
	return c.isVIP && (c.totalOrders+1)%3 == 0
}

// GrantVIP is a no-op for customers that already are VIP.
func (c *Customer) GrantVIP(at time.Time) {
	if c.isVIP {
		return
	}
	c.isVIP = true
	c.vipActivatedAt = &at
}

func (c *Customer) RevokeVIP() {
	c.isVIP = false
	c.vipActivatedAt = nil
}
