package ports

import (
	"context"

	"auctiondelivery/internal/core/domain/model/feedback"
	"auctiondelivery/internal/core/domain/model/kernel"
)

// RatingRepository stores order ratings and serves the reputation recomputations.
type RatingRepository interface {
	Add(ctx context.Context, rating feedback.Rating) error

	ExistsForOrder(ctx context.Context, orderID, raterID kernel.UUID) (bool, error)

	// ListForDelivery returns all ratings of orders delivered by deliveryID.
	ListForDelivery(ctx context.Context, deliveryID kernel.UUID) ([]feedback.Rating, error)

	// ListForChef returns every rating of an order containing at least one of the chef's
	// items, once per order.
	ListForChef(ctx context.Context, chefID kernel.UUID) ([]feedback.Rating, error)

	ListByRater(ctx context.Context, raterID kernel.UUID) ([]feedback.Rating, error)

	// FlagRater records that the rater crossed the abuse threshold. Idempotent.
	FlagRater(ctx context.Context, raterID kernel.UUID, abuseCount int) error
}

type ComplaintRepository interface {
	Add(ctx context.Context, complaint *feedback.Complaint) error
	Get(ctx context.Context, id kernel.UUID) (*feedback.Complaint, error)
	Update(ctx context.Context, complaint *feedback.Complaint) error
	HasPendingAgainst(ctx context.Context, userID kernel.UUID) (bool, error)
	CountUpheldAgainst(ctx context.Context, userID kernel.UUID) (int, error)
}

type ComplimentRepository interface {
	Add(ctx context.Context, compliment feedback.Compliment) error
	CountFor(ctx context.Context, userID kernel.UUID) (int, error)
}

type MemoRepository interface {
	Add(ctx context.Context, memo feedback.Memo) error
	ListByOrder(ctx context.Context, orderID kernel.UUID) ([]feedback.Memo, error)
}

// KnowledgeRepository stores knowledge-base entries and their ratings.
type KnowledgeRepository interface {
	GetEntry(ctx context.Context, id kernel.UUID) (*feedback.KnowledgeEntry, error)
	UpdateEntry(ctx context.Context, entry *feedback.KnowledgeEntry) error
	AddRating(ctx context.Context, rating feedback.KnowledgeRating) error
	ListRatings(ctx context.Context, entryID kernel.UUID) ([]feedback.KnowledgeRating, error)
}
