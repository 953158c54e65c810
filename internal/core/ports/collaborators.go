package ports

import (
	"context"
	"time"

	"auctiondelivery/internal/core/domain/model/kernel"
)

// CatalogItem is what the menu service tells the core about an item.
type CatalogItem struct {
	ID          kernel.UUID
	ChefID      kernel.UUID
	Price       kernel.Money
	IsAvailable bool
}

// Catalog looks up menu items. It is called before any transaction is opened.
type Catalog interface {
	GetItem(ctx context.Context, itemID kernel.UUID) (CatalogItem, error)
}

// PaymentGateway moves real money. Failures are returned as errors; the caller decides
// whether to retry.
type PaymentGateway interface {
	Charge(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error
	Refund(ctx context.Context, customerID kernel.UUID, amount kernel.Money) error
}

// Audience is who a notification is addressed to.
type Audience string

const (
	AudienceUser     Audience = "user"
	AudienceManagers Audience = "managers"
)

// Notification is a fire-and-forget message.
type Notification struct {
	Audience    Audience
	RecipientID *kernel.UUID
	Event       string
	Payload     map[string]any
}

// Notifier delivers notifications. Delivery failures are the notifier's concern and
// never reach the caller.
type Notifier interface {
	Notify(ctx context.Context, notifications ...Notification)
}

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

// WindowScheduler arms and disarms the per-order timeout of bidding windows.
type WindowScheduler interface {
	Schedule(orderID kernel.UUID, deadline time.Time)
	Cancel(orderID kernel.UUID)
}
