package queries

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetActiveOrdersQueryHandler reads undelivered orders straight from the orders table.
type GetActiveOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetActiveOrdersQueryHandler(db *gorm.DB) GetActiveOrdersQueryHandler {
	return GetActiveOrdersQueryHandler{db: db}
}

// Handle returns the orders sorted by creation time, then id.
func (h GetActiveOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetActiveOrdersQuery,
) ([]GetActiveOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("orders").
		Select("id, customer_id, delivery_id, status, created_at").
		Where("status <> ?", int(order.Delivered))
	if status := query.Status(); status != nil {
		tx = tx.Where("status = ?", int(*status))
	}

	rows, err := tx.Order("created_at, id").Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GetActiveOrdersQueryResponse, 0)
	for rows.Next() {
		var (
			id, customerID uuid.UUID
			deliveryID     *uuid.UUID
			status         int
			createdAt      time.Time
		)
		if err := rows.Scan(&id, &customerID, &deliveryID, &status, &createdAt); err != nil {
			return nil, err
		}

		resp := GetActiveOrdersQueryResponse{
			Status:    order.Status(status).String(),
			CreatedAt: createdAt,
		}
		if resp.ID, err = kernel.UUIDFromGoogle(id); err != nil {
			return nil, err
		}
		if resp.CustomerID, err = kernel.UUIDFromGoogle(customerID); err != nil {
			return nil, err
		}
		if resp.DeliveryID, err = kernel.OptionalUUIDFromGoogle(deliveryID); err != nil {
			return nil, err
		}
		orders = append(orders, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}
