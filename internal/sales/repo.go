package sales

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/pagination"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// Repository persists sales and their line items.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts the sale and its items; item positions follow slice order.
func (r *Repository) Create(ctx context.Context, sale *models.Sale) error {
	if sale.ID.IsZero() {
		sale.ID = types.New[types.SaleID]()
	}
	for i := range sale.Items {
		if sale.Items[i].ID.IsZero() {
			sale.Items[i].ID = types.New[types.SaleItemID]()
		}
		sale.Items[i].SaleID = sale.ID
		sale.Items[i].Position = i
	}
	return r.db.WithContext(ctx).Create(sale).Error
}

// FindByID loads a sale with its items in order.
func (r *Repository) FindByID(ctx context.Context, id types.SaleID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListByStore returns one page of a store's sales, newest first. It fetches
// limit+1 rows so the caller can tell whether another page exists.
func (r *Repository) ListByStore(ctx context.Context, storeID types.StoreID, cursor *pagination.Cursor[types.SaleID], limit int) ([]models.Sale, error) {
	query := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("store_id = ?", storeID)
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)",
			cursor.CreatedAt, cursor.CreatedAt, cursor.ID.String())
	}
	var rows []models.Sale
	if err := query.
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByDateRange returns a store's sales with start <= created_at <= end.
func (r *Repository) ListByDateRange(ctx context.Context, storeID types.StoreID, start, end time.Time) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("store_id = ? AND created_at >= ? AND created_at <= ?", storeID, start.UTC(), end.UTC()).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCashier returns the sales rung up by an account, newest first.
func (r *Repository) ListByCashier(ctx context.Context, cashierID types.AccountID, limit int) ([]models.Sale, error) {
	var rows []models.Sale
	if err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("cashier_id = ?", cashierID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRefunded moves a completed sale to refunded. It reports false when the
// sale was not in the completed state.
func (r *Repository) MarkRefunded(ctx context.Context, id types.SaleID, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Sale{}).
		Where("id = ? AND status = ?", id, enums.SaleStatusCompleted).
		Updates(map[string]any{
			"status":     enums.SaleStatusRefunded,
			"updated_at": at,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// StoreTaxRate returns the store's tax override, if any. found is false when
// the store does not exist.
func (r *Repository) StoreTaxRate(ctx context.Context, storeID types.StoreID) (rate decimal.NullDecimal, found bool, err error) {
	var store models.Store
	err = r.db.WithContext(ctx).
		Select("id", "tax_rate").
		Where("id = ?", storeID).
		Take(&store).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.NullDecimal{}, false, nil
		}
		return decimal.NullDecimal{}, false, err
	}
	return store.TaxRate, true, nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
