// Package ports declares the contracts between the application core and its adapters:
// repositories bound to a unit of work, and the external collaborators (catalog, payment
// gateway, notifier, clock, auction timers).
package ports

import (
	"context"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/domain/model/order"
)

// OrderRepository persists order aggregates together with their items.
type OrderRepository interface {
	// Add persists a new order and its items.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update writes the order if its version is unchanged since it was read and bumps
	// the version. A concurrent change yields errs.VersionIsInvalidError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get loads an order with its items. Missing orders yield errs.ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}
