package queries

import (
	"errors"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/pkg/errs"
	"auctiondelivery/internal/pkg/guard"
)

// DefaultInboxLimit caps a listing when the caller does not ask for a size.
const DefaultInboxLimit = 50

var (
	ErrListManagerInboxQueryIsNotConstructed = errors.New(
		"ListManagerInboxQuery must be created via NewListManagerInboxQuery constructor",
	)
)

// ListManagerInboxQuery lists inbox messages, newest first. Acknowledged messages are
// left out unless includeAcked is set.
type ListManagerInboxQuery struct {
	includeAcked bool
	limit        int

	guard guard.ConstructorGuard
}

// NewListManagerInboxQuery accepts limit 0 as DefaultInboxLimit.
func NewListManagerInboxQuery(includeAcked bool, limit int) (ListManagerInboxQuery, error) {
	if limit < 0 || limit > 500 {
		return ListManagerInboxQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 0, 500)
	}
	if limit == 0 {
		limit = DefaultInboxLimit
	}
	return ListManagerInboxQuery{includeAcked: includeAcked, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (q ListManagerInboxQuery) Validate() error {
	return q.guard.Validate(ErrListManagerInboxQueryIsNotConstructed)
}

func (q ListManagerInboxQuery) IncludeAcked() bool { return q.includeAcked }
func (q ListManagerInboxQuery) Limit() int         { return q.limit }

type InboxEntry struct {
	ID        kernel.UUID
	Kind      string
	SubjectID kernel.UUID
	Body      map[string]any
	CreatedAt time.Time
	AckedAt   *time.Time
}
