package reports

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// saleRow is the slice of a sale the aggregator needs.
type saleRow struct {
	Status     enums.SaleStatus
	TotalCents int64
	CreatedAt  time.Time
}

// Repository reads sales for reporting.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// SalesSince returns every sale of the store created at or after since.
func (r *Repository) SalesSince(ctx context.Context, storeID types.StoreID, since time.Time) ([]saleRow, error) {
	var rows []saleRow
	err := r.db.WithContext(ctx).
		Table("sales").
		Select("status", "total_cents", "created_at").
		Where("store_id = ? AND created_at >= ?", storeID, since.UTC()).
		Order("created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
