package queries

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetRankedBidsQueryHandler struct {
	db *gorm.DB
}

func NewGetRankedBidsQueryHandler(db *gorm.DB) GetRankedBidsQueryHandler {
	return GetRankedBidsQueryHandler{db: db}
}

// Handle orders bids by amount, then submission time, then id; the same total order the
// auction uses when it announces the list.
func (h GetRankedBidsQueryHandler) Handle(
	ctx context.Context,
	query GetRankedBidsQuery,
) (GetRankedBidsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRankedBidsQueryResponse{}, err
	}

	var window struct {
		Deadline    time.Time
		ClosedAt    *time.Time
		CloseReason string
	}
	res := h.db.WithContext(ctx).Raw(`
		SELECT deadline, closed_at, close_reason
		FROM bidding_windows
		WHERE order_id = ?
	`, query.OrderID().Bytes()).Scan(&window)
	if res.Error != nil {
		return GetRankedBidsQueryResponse{}, res.Error
	}
	if res.RowsAffected == 0 {
		return GetRankedBidsQueryResponse{}, errs.NewObjectNotFoundError("bidding window", query.OrderID().String())
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			delivery_id,
			amount_cents,
			eta_minutes,
			created_at,
			is_selected
		FROM delivery_bids
		WHERE order_id = ?
		ORDER BY amount_cents, created_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetRankedBidsQueryResponse{}, err
	}
	defer rows.Close()

	resp := GetRankedBidsQueryResponse{
		OrderID:     query.OrderID(),
		Deadline:    window.Deadline,
		Closed:      window.ClosedAt != nil,
		CloseReason: window.CloseReason,
		Bids:        make([]RankedBid, 0),
	}
	for rows.Next() {
		var bidID, deliveryID uuid.UUID
		var bid RankedBid
		var cents int64
		if err = rows.Scan(&bidID, &deliveryID, &cents, &bid.ETAMinutes, &bid.CreatedAt, &bid.IsSelected); err != nil {
			return GetRankedBidsQueryResponse{}, err
		}
		if bid.BidID, err = kernel.UUIDFromBytes(bidID[:]); err != nil {
			return GetRankedBidsQueryResponse{}, err
		}
		if bid.DeliveryID, err = kernel.UUIDFromBytes(deliveryID[:]); err != nil {
			return GetRankedBidsQueryResponse{}, err
		}
		bid.Amount = kernel.MoneyFromCents(cents)
		resp.Bids = append(resp.Bids, bid)
	}
	if err = rows.Err(); err != nil {
		return GetRankedBidsQueryResponse{}, err
	}
	return resp, nil
}
