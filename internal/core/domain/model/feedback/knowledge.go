package feedback

import (
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
)

// KnowledgeEntry is a knowledge-base answer rated by its readers. A single zero rating
// deactivates it for good.
type KnowledgeEntry struct {
	ID        kernel.UUID
	Question  string
	AvgRating float64
	FlagCount int
	IsActive  bool
	UpdatedAt time.Time
}

// ApplyRecomputation stores the recomputed statistics. latest is the rating that
// triggered the recomputation; zero deactivates the entry whatever the average.
func (e *KnowledgeEntry) ApplyRecomputation(avg float64, flags int, latest int, at time.Time) {
	e.AvgRating = avg
	e.FlagCount = flags
	e.UpdatedAt = at
	if latest == 0 {
		e.IsActive = false
	}
}

// KnowledgeRating is one reader's score of an entry, 0 meaning "flag as wrong".
type KnowledgeRating struct {
	ID        kernel.UUID
	EntryID   kernel.UUID
	UserID    kernel.UUID
	Value     int
	Weight    int
	CreatedAt time.Time
}

func NewKnowledgeRating(entryID, userID kernel.UUID, value int, raterIsVIP bool, at time.Time) (KnowledgeRating, error) {
	if err := entryID.Validate(); err != nil {
		return KnowledgeRating{}, err
	}
	if err := userID.Validate(); err != nil {
		return KnowledgeRating{}, err
	}
	if value < 0 || value > MaxScore {
		return KnowledgeRating{}, errs.NewValueIsOutOfRangeError("rating", value, 0, MaxScore)
	}
	return KnowledgeRating{
		ID:        kernel.NewUUID(),
		EntryID:   entryID,
		UserID:    userID,
		Value:     value,
		Weight:    WeightFor(raterIsVIP),
		CreatedAt: at,
	}, nil
}
