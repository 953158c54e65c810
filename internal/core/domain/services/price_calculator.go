package services

import (
	"fmt"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

// VIPDiscountRate is the share of the subtotal VIP customers do not pay.
var VIPDiscountRate = decimal.RequireFromString("0.05")

// PriceCalculator prices a cart:
//
//	subtotal     = Σ unit_price × qty
//	discount     = 5% of subtotal for VIPs
//	taxes        = TAX_RATE × subtotal
//	delivery_fee = 0 with free delivery, BASE_DELIVERY_FEE otherwise
//	total        = round2(subtotal − discount + taxes + delivery_fee)
type PriceCalculator struct {
	taxRate         decimal.Decimal
	baseDeliveryFee kernel.Money
}

func NewPriceCalculator(taxRate decimal.Decimal, baseDeliveryFee kernel.Money) (PriceCalculator, error) {
	if taxRate.IsNegative() || taxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return PriceCalculator{}, errs.NewValueIsOutOfRangeError("tax_rate", taxRate, 0, "1 (exclusive)")
	}
	if baseDeliveryFee.IsNegative() {
		return PriceCalculator{}, errs.NewValueIsInvalidErrorWithCause(
			"base_delivery_fee", fmt.Errorf("%s is negative", baseDeliveryFee))
	}
	return PriceCalculator{taxRate: taxRate, baseDeliveryFee: baseDeliveryFee}, nil
}

// Quote computes the breakdown. Taxes apply to the undiscounted subtotal.
func (c PriceCalculator) Quote(items []order.Item, isVIP, freeDelivery bool) order.Pricing {
	subtotal := kernel.ZeroMoney()
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}

	rate := decimal.Zero
	if isVIP {
		rate = VIPDiscountRate
	}
	discount := subtotal.Mul(rate)
	taxes := subtotal.Mul(c.taxRate)

	fee := c.baseDeliveryFee
	if freeDelivery {
		fee = kernel.ZeroMoney()
	}

	return order.Pricing{
		Subtotal:     subtotal,
		DiscountRate: rate,
		Discount:     discount,
		Taxes:        taxes,
		DeliveryFee:  fee,
		FreeDelivery: freeDelivery,
		Total:        subtotal.Sub(discount).Add(taxes).Add(fee).Round2(),
	}
}
