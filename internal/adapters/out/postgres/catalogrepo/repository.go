// Package catalogrepo reads the menu. The menu is owned by another service; the core only
// snapshots prices from it when an order is placed.
package catalogrepo

import (
	"context"
	"errors"

	"auctiondelivery/internal/core/domain/model/kernel"
	"auctiondelivery/internal/core/ports"
	"auctiondelivery/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuItemDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ChefID      uuid.UUID `gorm:"type:uuid;index;not null"`
	Name        string    `gorm:"type:varchar(255);not null"`
	PriceCents  int64     `gorm:"not null"`
	IsAvailable bool      `gorm:"not null;default:true"`
}

func (MenuItemDTO) TableName() string {
	return "menu_items"
}

// GormCatalog implements ports.Catalog on the menu_items table.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) GetItem(ctx context.Context, itemID kernel.UUID) (ports.CatalogItem, error) {
	var dto MenuItemDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", itemID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.CatalogItem{}, errs.NewObjectNotFoundError("menu item", itemID.String())
		}
		return ports.CatalogItem{}, err
	}
	chefID, err := kernel.UUIDFromGoogle(dto.ChefID)
	if err != nil {
		return ports.CatalogItem{}, err
	}
	return ports.CatalogItem{
		ID:          itemID,
		ChefID:      chefID,
		Price:       kernel.MoneyFromCents(dto.PriceCents),
		IsAvailable: dto.IsAvailable,
	}, nil
}
