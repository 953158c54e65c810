package order

import (
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

// Pricing is the breakdown of an order total.
type Pricing struct {
	Subtotal     kernel.Money
	DiscountRate decimal.Decimal
	Discount     kernel.Money
	Taxes        kernel.Money
	DeliveryFee  kernel.Money
	FreeDelivery bool
	Total        kernel.Money
}
