package models

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/types"
)

// BarcodeScan is an append-only audit row for every register scan.
type BarcodeScan struct {
	ID        types.BarcodeScanID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID   types.StoreID       `gorm:"column:store_id;type:uuid;not null;index"`
	Barcode   string              `gorm:"column:barcode;not null"`
	ProductID *types.ProductID    `gorm:"column:product_id;type:uuid"`
	AccountID *types.AccountID    `gorm:"column:account_id;type:uuid"`
	Success   bool                `gorm:"column:success;not null"`
	ScannedAt time.Time           `gorm:"column:scanned_at;not null;index"`
}
