package services

import (
	"auctiondelivery/internal/core/domain/model/account"
	"auctiondelivery/internal/core/domain/model/kernel"
)

// VIPSpendThreshold is the total spend strictly above which a customer becomes VIP.
var VIPSpendThreshold = kernel.MustMoney("100")

// VIPPolicy decides VIP upgrades: total_spent > 100, or at least 3 orders with a clean
// warning record. Customers already VIP, inactive, or with a pending complaint against
// them are never upgraded.
type VIPPolicy struct{}

func NewVIPPolicy() VIPPolicy {
	return VIPPolicy{}
}

func (VIPPolicy) Qualifies(c *account.Customer, u *account.User, hasPendingComplaints bool) bool {
	if c.IsVIP() || u.Status() != account.Active || hasPendingComplaints {
		return false
	}
	bigSpender := c.TotalSpent().GreaterThan(VIPSpendThreshold)
	loyal := c.TotalOrders() >= 3 && u.WarningCount() == 0
	return bigSpender || loyal
}
