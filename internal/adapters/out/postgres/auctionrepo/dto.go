// Package auctionrepo persists delivery bids and bidding windows. The windows table is
// the keyed window store: one row per order, mutated only through conditional updates.
package auctionrepo

import (
	"time"

	"auctiondelivery/internal/core/domain/model/auction"
	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type BidDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;index;not null"`
	DeliveryID  uuid.UUID `gorm:"type:uuid;index;not null"`
	AmountCents int64     `gorm:"not null"`
	ETAMinutes  int       `gorm:"column:eta_minutes;not null"`
	CreatedAt   time.Time `gorm:"not null"`
	IsSelected  bool      `gorm:"not null;default:false"`
}

func (BidDTO) TableName() string {
	return "delivery_bids"
}

type WindowDTO struct {
	OrderID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OpenedAt        time.Time `gorm:"not null"`
	Deadline        time.Time `gorm:"index;not null"`
	DurationSeconds int64     `gorm:"not null"`
	BidCount        int       `gorm:"not null;default:0"`
	ClosedAt        *time.Time
	CloseReason     string `gorm:"type:varchar(16)"`
}

func (WindowDTO) TableName() string {
	return "bidding_windows"
}

func bidFromDomain(b *auction.Bid) BidDTO {
	return BidDTO{
		ID:          b.ID().Bytes(),
		OrderID:     b.OrderID().Bytes(),
		DeliveryID:  b.DeliveryID().Bytes(),
		AmountCents: b.Amount().Cents(),
		ETAMinutes:  b.ETAMinutes(),
		CreatedAt:   b.CreatedAt().UTC(),
		IsSelected:  b.IsSelected(),
	}
}

func bidToDomain(dto BidDTO) (*auction.Bid, error) {
	id, err := kernel.UUIDFromGoogle(dto.ID)
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	deliveryID, err := kernel.UUIDFromGoogle(dto.DeliveryID)
	if err != nil {
		return nil, err
	}
	return auction.RestoreBid(id, orderID, deliveryID, kernel.MoneyFromCents(dto.AmountCents),
		dto.ETAMinutes, dto.CreatedAt, dto.IsSelected)
}

func windowFromDomain(w *auction.Window) WindowDTO {
	return WindowDTO{
		OrderID:         w.OrderID().Bytes(),
		OpenedAt:        w.OpenedAt().UTC(),
		Deadline:        w.Deadline().UTC(),
		DurationSeconds: int64(w.Duration() / time.Second),
		BidCount:        w.BidCount(),
		ClosedAt:        w.ClosedAt(),
		CloseReason:     string(w.CloseReason()),
	}
}

func windowToDomain(dto WindowDTO) (*auction.Window, error) {
	orderID, err := kernel.UUIDFromGoogle(dto.OrderID)
	if err != nil {
		return nil, err
	}
	return auction.RestoreWindow(orderID, dto.OpenedAt, time.Duration(dto.DurationSeconds)*time.Second,
		dto.BidCount, dto.ClosedAt, auction.CloseReason(dto.CloseReason))
}
