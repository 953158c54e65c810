package auctionrepo

import (
	"context"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormBidRepository implements ports.BidRepository using GORM.
type GormBidRepository struct {
	db *gorm.DB
}

func NewGormBidRepository(db *gorm.DB) *GormBidRepository {
	return &GormBidRepository{db: db}
}

func (r *GormBidRepository) Add(ctx context.Context, bid *auction.Bid) error {
	if err := bid.Validate(); err != nil {
		return err
	}
	dto := bidFromDomain(bid)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormBidRepository) MarkSelected(ctx context.Context, bid *auction.Bid) error {
	if err := bid.Validate(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Model(&BidDTO{}).
		Where("id = ?", bid.ID().Bytes()).
		Update("is_selected", bid.IsSelected())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormBidRepository) ListByOrder(ctx context.Context, orderID kernel.UUID) ([]*auction.Bid, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	var dtos []BidDTO
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("created_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	bids := make([]*auction.Bid, 0, len(dtos))
	for _, dto := range dtos {
		b, err := bidToDomain(dto)
		if err != nil {
			return nil, err
		}
		bids = append(bids, b)
	}
	return bids, nil
}
