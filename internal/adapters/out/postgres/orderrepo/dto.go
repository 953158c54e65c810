// Package orderrepo persists order aggregates: the orders row and its order_items lines.
// Money is stored in cents.
package orderrepo

import (
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderDTO struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID       uuid.UUID  `gorm:"type:uuid;index;not null"`
	DeliveryID       *uuid.UUID `gorm:"type:uuid;index"`
	Status           int        `gorm:"index;not null"`
	TotalPriceCents  int64      `gorm:"not null"`
	DiscountRate     string     `gorm:"type:varchar(16);not null"`
	IsFreeDelivery   bool       `gorm:"not null"`
	DeliveryFeeCents int64      `gorm:"not null"`
	CreatedAt        time.Time  `gorm:"not null"`
	PickedUpAt       *time.Time
	DeliveredAt      *time.Time
	Version          int64          `gorm:"not null;default:1"`
	Items            []OrderItemDTO `gorm:"foreignKey:OrderID;references:ID"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type OrderItemDTO struct {
	ID             uint      `gorm:"primaryKey;autoIncrement"`
	OrderID        uuid.UUID `gorm:"type:uuid;index;not null"`
	ItemID         uuid.UUID `gorm:"type:uuid;not null"`
	ChefID         uuid.UUID `gorm:"type:uuid;index;not null"`
	Quantity       int       `gorm:"not null"`
	UnitPriceCents int64     `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	items := make([]OrderItemDTO, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, OrderItemDTO{
			OrderID:        o.ID().Bytes(),
			ItemID:         it.ItemID().Bytes(),
			ChefID:         it.ChefID().Bytes(),
			Quantity:       it.Quantity(),
			UnitPriceCents: it.UnitPrice().Cents(),
		})
	}

	return OrderDTO{
		ID:               o.ID().Bytes(),
		CustomerID:       o.CustomerID().Bytes(),
		DeliveryID:       kernel.OptionalUUIDToGoogle(o.DeliveryID()),
		Status:           int(o.Status()),
		TotalPriceCents:  o.TotalPrice().Cents(),
		DiscountRate:     o.DiscountRate().String(),
		IsFreeDelivery:   o.IsFreeDelivery(),
		DeliveryFeeCents: o.DeliveryPrice().Cents(),
		CreatedAt:        o.CreatedAt().UTC(),
		PickedUpAt:       o.PickedUpAt(),
		DeliveredAt:      o.DeliveredAt(),
		Version:          o.Version(),
		Items:            items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	customerID, err := kernel.UUIDFromGoogle(dto.CustomerID)
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.OptionalUUIDFromGoogle(dto.DeliveryID)
	if err != nil {
		return nil, err
	}
	rate, err := decimal.NewFromString(dto.DiscountRate)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, line := range dto.Items {
		itemID, err := kernel.UUIDFromGoogle(line.ItemID)
		if err != nil {
			return nil, err
		}
		chefID, err := kernel.UUIDFromGoogle(line.ChefID)
		if err != nil {
			return nil, err
		}
		item, err := order.NewItem(itemID, chefID, line.Quantity, kernel.MoneyFromCents(line.UnitPriceCents))
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.Snapshot{
		ID:           id,
		CustomerID:   customerID,
		Items:        items,
		Status:       order.Status(dto.Status),
		TotalPrice:   kernel.MoneyFromCents(dto.TotalPriceCents),
		DiscountRate: rate,
		FreeDelivery: dto.IsFreeDelivery,
		DeliveryFee:  kernel.MoneyFromCents(dto.DeliveryFeeCents),
		DeliveryID:   deliveryID,
		CreatedAt:    dto.CreatedAt,
		PickedUpAt:   dto.PickedUpAt,
		DeliveredAt:  dto.DeliveredAt,
		Version:      dto.Version,
	})
}
