package queries

import (
	"context"
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
	"auctiondelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderDetailsQueryHandler reads orders straight from the tables, bypassing the
// aggregate.
type GetOrderDetailsQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderDetailsQueryHandler(db *gorm.DB) GetOrderDetailsQueryHandler {
	return GetOrderDetailsQueryHandler{db: db}
}

// Handle returns ObjectNotFound for an unknown order. Lines come back in insertion order.
func (h GetOrderDetailsQueryHandler) Handle(
	ctx context.Context,
	query GetOrderDetailsQuery,
) (GetOrderDetailsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}

	var row struct {
		ID               uuid.UUID
		CustomerID       uuid.UUID
		DeliveryID       *uuid.UUID
		Status           int
		TotalPriceCents  int64
		DiscountRate     string
		IsFreeDelivery   bool
		DeliveryFeeCents int64
		CreatedAt        time.Time
		PickedUpAt       *time.Time
		DeliveredAt      *time.Time
	}
	res := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			customer_id,
			delivery_id,
			status,
			total_price_cents,
			discount_rate,
			is_free_delivery,
			delivery_fee_cents,
			created_at,
			picked_up_at,
			delivered_at
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Scan(&row)
	if res.Error != nil {
		return GetOrderDetailsQueryResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return GetOrderDetailsQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	resp := GetOrderDetailsQueryResponse{
		Status:         order.Status(row.Status).String(),
		TotalPrice:     kernel.MoneyFromCents(row.TotalPriceCents),
		DiscountRate:   row.DiscountRate,
		IsFreeDelivery: row.IsFreeDelivery,
		DeliveryFee:    kernel.MoneyFromCents(row.DeliveryFeeCents),
		CreatedAt:      row.CreatedAt,
		PickedUpAt:     row.PickedUpAt,
		DeliveredAt:    row.DeliveredAt,
	}
	var err error
	if resp.ID, err = kernel.UUIDFromBytes(row.ID[:]); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}
	if resp.CustomerID, err = kernel.UUIDFromBytes(row.CustomerID[:]); err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}
	if row.DeliveryID != nil {
		deliveryID, idErr := kernel.UUIDFromBytes(row.DeliveryID[:])
		if idErr != nil {
			return GetOrderDetailsQueryResponse{}, idErr
		}
		resp.DeliveryID = &deliveryID
	}

	resp.Items, err = h.lines(ctx, query.OrderID())
	if err != nil {
		return GetOrderDetailsQueryResponse{}, err
	}
	return resp, nil
}

func (h GetOrderDetailsQueryHandler) lines(ctx context.Context, orderID kernel.UUID) ([]OrderLine, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			item_id,
			chef_id,
			quantity,
			unit_price_cents
		FROM order_items
		WHERE order_id = ?
		ORDER BY id
	`, orderID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := make([]OrderLine, 0)
	for rows.Next() {
		var itemID, chefID uuid.UUID
		var line OrderLine
		var cents int64
		if err = rows.Scan(&itemID, &chefID, &line.Quantity, &cents); err != nil {
			return nil, err
		}
		var itemErr, chefErr error
		line.ItemID, itemErr = kernel.UUIDFromBytes(itemID[:])
		line.ChefID, chefErr = kernel.UUIDFromBytes(chefID[:])
		if err = errors.Join(itemErr, chefErr); err != nil {
			return nil, err
		}
		line.UnitPrice = kernel.MoneyFromCents(cents)
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
