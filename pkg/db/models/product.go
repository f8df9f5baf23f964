package models

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/types"
)

// Product is a sellable item and its on-hand quantity. Version increments on
// every write so concurrent edits can be detected.
type Product struct {
	ID          types.ProductID   `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     types.StoreID     `gorm:"column:store_id;type:uuid;not null;index"`
	CategoryID  *types.CategoryID `gorm:"column:category_id;type:uuid;index"`
	Name        string            `gorm:"column:name;not null"`
	Description *string           `gorm:"column:description"`
	SKU         string            `gorm:"column:sku;not null;index"`
	Barcode     *string           `gorm:"column:barcode;index"`
	PriceCents  int64             `gorm:"column:price_cents;not null"`
	CostCents   *int64            `gorm:"column:cost_cents"`
	Quantity    int               `gorm:"column:quantity;not null;default:0"`
	MinQuantity int               `gorm:"column:min_quantity;not null;default:0"`
	Unit        *string           `gorm:"column:unit"`
	IsActive    bool              `gorm:"column:is_active;not null"`
	Version     int               `gorm:"column:version;not null;default:1"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// IsLowStock reports whether on-hand quantity is at or below the threshold.
func (p Product) IsLowStock() bool {
	return p.Quantity <= p.MinQuantity
}
