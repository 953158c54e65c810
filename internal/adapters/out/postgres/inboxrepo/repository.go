// Package inboxrepo persists the manager inbox: ranked bid lists, performance
// recommendations and abuse flags waiting for a manager to acknowledge them.
package inboxrepo

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageDTO struct {
	ID        uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Kind      string         `gorm:"type:varchar(32);index;not null"`
	SubjectID uuid.UUID      `gorm:"type:uuid;index;not null"`
	Body      map[string]any `gorm:"type:text;serializer:json"`
	CreatedAt time.Time      `gorm:"not null"`
	AckedAt   *time.Time
	AckedBy   *uuid.UUID `gorm:"type:uuid"`
}

func (MessageDTO) TableName() string {
	return "inbox_messages"
}

// GormManagerInbox implements ports.ManagerInbox.
type GormManagerInbox struct {
	db *gorm.DB
}

func NewGormManagerInbox(db *gorm.DB) *GormManagerInbox {
	return &GormManagerInbox{db: db}
}

func (r *GormManagerInbox) Post(ctx context.Context, msg ports.InboxMessage) error {
	dto := MessageDTO{
		ID:        msg.ID.Bytes(),
		Kind:      string(msg.Kind),
		SubjectID: msg.SubjectID.Bytes(),
		Body:      msg.Body,
		CreatedAt: msg.CreatedAt.UTC(),
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormManagerInbox) Ack(ctx context.Context, id, managerID kernel.UUID, at time.Time) error {
	managerRaw := managerID.Bytes()
	result := r.db.WithContext(ctx).
		Model(&MessageDTO{}).
		Where("id = ? AND acked_at IS NULL", id.Bytes()).
		Updates(map[string]any{"acked_at": at.UTC(), "acked_by": &managerRaw})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&MessageDTO{}).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError("inbox message", id.String())
	}
	return nil
}
