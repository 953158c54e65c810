package ports

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
)

// InboxKind classifies manager inbox messages.
type InboxKind string

const (
	InboxRankedBids     InboxKind = "RANKED_BIDS"
	InboxRecommendation InboxKind = "RECOMMENDATION"
	InboxAbuseFlag      InboxKind = "ABUSE_FLAG"
)

// InboxMessage is an item waiting for a manager to read and acknowledge it.
type InboxMessage struct {
	ID        kernel.UUID
	Kind      InboxKind
	SubjectID kernel.UUID
	Body      map[string]any
	CreatedAt time.Time
	AckedAt   *time.Time
	AckedBy   *kernel.UUID
}

// NewInboxMessage builds an unacknowledged message.
func NewInboxMessage(kind InboxKind, subjectID kernel.UUID, body map[string]any, at time.Time) InboxMessage {
	return InboxMessage{ID: kernel.NewUUID(), Kind: kind, SubjectID: subjectID, Body: body, CreatedAt: at}
}

// ManagerInbox is the persisted read/ack queue of manager messages.
type ManagerInbox interface {
	Post(ctx context.Context, msg InboxMessage) error

	// Ack marks a message as read. Acknowledging twice is a no-op.
	Ack(ctx context.Context, id, managerID kernel.UUID, at time.Time) error
}
