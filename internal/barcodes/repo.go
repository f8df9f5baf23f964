package barcodes

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Insert appends a scan row.
func (r *Repository) Insert(ctx context.Context, scan *models.BarcodeScan) error {
	if scan.ID.IsZero() {
		scan.ID = types.New[types.BarcodeScanID]()
	}
	return r.db.WithContext(ctx).Create(scan).Error
}

// ListByStore returns the store's most recent scans first.
func (r *Repository) ListByStore(ctx context.Context, storeID types.StoreID, limit int) ([]models.BarcodeScan, error) {
	var rows []models.BarcodeScan
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("scanned_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
