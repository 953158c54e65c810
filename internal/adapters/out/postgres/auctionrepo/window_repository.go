package auctionrepo

import (
	"context"
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormWindowRepository implements ports.BiddingWindowRepository. Each write is one
// conditional UPDATE: the row lock it takes serialises concurrent bids on the same
// order, and RowsAffected tells the caller whether it won.
type GormWindowRepository struct {
	db *gorm.DB
}

func NewGormWindowRepository(db *gorm.DB) *GormWindowRepository {
	return &GormWindowRepository{db: db}
}

func (r *GormWindowRepository) Open(ctx context.Context, window *auction.Window) error {
	if err := window.Validate(); err != nil {
		return err
	}
	dto := windowFromDomain(window)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormWindowRepository) Get(ctx context.Context, orderID kernel.UUID) (*auction.Window, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	var dto WindowDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("bidding window", orderID.String())
		}
		return nil, err
	}
	return windowToDomain(dto)
}

func (r *GormWindowRepository) RegisterBid(ctx context.Context, orderID kernel.UUID, at time.Time) (int, error) {
	result := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Where("order_id = ? AND closed_at IS NULL AND deadline > ?", orderID.Bytes(), at.UTC()).
		Update("bid_count", gorm.Expr("bid_count + 1"))
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, auction.ErrWindowClosed
	}

	var count int
	err := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Select("bid_count").
		Where("order_id = ?", orderID.Bytes()).
		Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormWindowRepository) CloseIfOpen(
	ctx context.Context,
	orderID kernel.UUID,
	at time.Time,
	reason auction.CloseReason,
) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Where("order_id = ? AND closed_at IS NULL", orderID.Bytes()).
		Updates(map[string]any{"closed_at": at.UTC(), "close_reason": string(reason)})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *GormWindowRepository) ListExpiredOpen(ctx context.Context, now time.Time, limit int) ([]kernel.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&WindowDTO{}).
		Where("closed_at IS NULL AND deadline <= ?", now.UTC()).
		Order("deadline").
		Limit(limit).
		Pluck("order_id", &ids).Error
	if err != nil {
		return nil, err
	}

	out := make([]kernel.UUID, 0, len(ids))
	for _, id := range ids {
		orderID, err := kernel.UUIDFromGoogle(id)
		if err != nil {
			return nil, err
		}
		out = append(out, orderID)
	}
	return out, nil
}

func (r *GormWindowRepository) ListOpen(ctx context.Context) ([]*auction.Window, error) {
	var dtos []WindowDTO
	if err := r.db.WithContext(ctx).Where("closed_at IS NULL").Order("deadline").Find(&dtos).Error; err != nil {
		return nil, err
	}
	windows := make([]*auction.Window, 0, len(dtos))
	for _, dto := range dtos {
		w, err := windowToDomain(dto)
		if err != nil {
			return nil, err
		}
		windows = append(windows, w)
	}
	return windows, nil
}
