package queries

import (
	"context"
	"encoding/json"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListManagerInboxQueryHandler struct {
	db *gorm.DB
}

func NewListManagerInboxQueryHandler(db *gorm.DB) ListManagerInboxQueryHandler {
	return ListManagerInboxQueryHandler{db: db}
}

func (h ListManagerInboxQueryHandler) Handle(ctx context.Context, query ListManagerInboxQuery) ([]InboxEntry, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).
		Table("inbox_messages").
		Select("id", "kind", "subject_id", "body", "created_at", "acked_at")
	if !query.IncludeAcked() {
		tx = tx.Where("acked_at IS NULL")
	}
	rows, err := tx.Order("created_at DESC").Order("id").Limit(query.Limit()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]InboxEntry, 0)
	for rows.Next() {
		var id, subjectID uuid.UUID
		var body []byte
		var entry InboxEntry
		var ackedAt *time.Time
		if err = rows.Scan(&id, &entry.Kind, &subjectID, &body, &entry.CreatedAt, &ackedAt); err != nil {
			return nil, err
		}
		if entry.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if entry.SubjectID, err = kernel.UUIDFromBytes(subjectID[:]); err != nil {
			return nil, err
		}
		if len(body) > 0 {
			if err = json.Unmarshal(body, &entry.Body); err != nil {
				return nil, err
			}
		}
		entry.AckedAt = ackedAt
		entries = append(entries, entry)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
