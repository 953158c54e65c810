package order

import (
	"errors"
	"fmt"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// Item is one cart line of an order.
type Item struct {
	itemID    kernel.UUID
	chefID    kernel.UUID
	quantity  int
	unitPrice kernel.Money
}

// NewItem snapshots a catalog item into an order line.
func NewItem(itemID, chefID kernel.UUID, quantity int, unitPrice kernel.Money) (Item, error) {
	if err := errors.Join(itemID.Validate(), chefID.Validate()); err != nil {
		return Item{}, err
	}
	if quantity <= 0 {
		return Item{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 1, "unbounded")
	}
	if unitPrice.IsNegative() {
		return Item{}, errs.NewValueIsInvalidErrorWithCause("unit_price", fmt.Errorf("%s is negative", unitPrice))
	}
	return Item{itemID: itemID, chefID: chefID, quantity: quantity, unitPrice: unitPrice}, nil
}

func (i Item) ItemID() kernel.UUID {
	return i.itemID
}

func (i Item) ChefID() kernel.UUID {
	return i.chefID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() kernel.Money {
	return i.unitPrice
}

// LineTotal is unit_price × quantity.
func (i Item) LineTotal() kernel.Money {
	return i.unitPrice.MulInt(i.quantity)
}
