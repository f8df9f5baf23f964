package products

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// ErrVersionMismatch is returned when a versioned write matched no row.
var ErrVersionMismatch = errors.New("product version mismatch")

// Repository is the inventory ledger's storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Create inserts a new product row, assigning an id when missing.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID.IsZero() {
		product.ID = types.New[types.ProductID]()
	}
	if product.Version == 0 {
		product.Version = 1
	}
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindByID loads a product by id.
func (r *Repository) FindByID(ctx context.Context, id types.ProductID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindInStore loads a product only when it belongs to storeID.
func (r *Repository) FindInStore(ctx context.Context, storeID types.StoreID, id types.ProductID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("id = ? AND store_id = ?", id, storeID).
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListByStore returns every product of a store ordered by name.
func (r *Repository) ListByStore(ctx context.Context, storeID types.StoreID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListByCategory returns the products assigned to a category.
func (r *Repository) ListByCategory(ctx context.Context, categoryID types.CategoryID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("name ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindBySKU returns the first product in the store carrying sku.
func (r *Repository) FindBySKU(ctx context.Context, storeID types.StoreID, sku string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND sku = ?", storeID, sku).
		Order("created_at ASC").
		First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByBarcode returns the first product carrying barcode, optionally limited to a store.
func (r *Repository) FindByBarcode(ctx context.Context, barcode string, storeID *types.StoreID) (*models.Product, error) {
	query := r.db.WithContext(ctx).Where("barcode = ?", barcode)
	if storeID != nil {
		query = query.Where("store_id = ?", *storeID)
	}
	var product models.Product
	if err := query.Order("created_at ASC").First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// LowStock returns the store's products whose quantity is at or below min_quantity.
func (r *Repository) LowStock(ctx context.Context, storeID types.StoreID) ([]models.Product, error) {
	var rows []models.Product
	if err := r.db.WithContext(ctx).
		Where("store_id = ? AND quantity <= min_quantity", storeID).
		Order("quantity ASC").Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateWithVersion writes the given columns only if the row still carries
// expectedVersion. The version is bumped as part of the write.
func (r *Repository) UpdateWithVersion(ctx context.Context, id types.ProductID, expectedVersion int, updates map[string]any) error {
	values := make(map[string]any, len(updates)+2)
	for k, v := range updates {
		values[k] = v
	}
	values["version"] = gorm.Expr("version + 1")
	values["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(values)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrVersionMismatch
	}
	return nil
}

// SetQuantity overwrites the on-hand quantity without clamping.
func (r *Repository) SetQuantity(ctx context.Context, id types.ProductID, quantity int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   quantity,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DecrementIfAvailable removes qty units only when at least qty are on hand.
// It reports false when the row is missing or short.
func (r *Repository) DecrementIfAvailable(ctx context.Context, id types.ProductID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AdjustQuantity applies a signed delta. It reports false when the product no longer exists.
func (r *Repository) AdjustQuantity(ctx context.Context, id types.ProductID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", delta),
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// Delete removes the product row.
func (r *Repository) Delete(ctx context.Context, id types.ProductID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StoreExists reports whether the store row is present.
func (r *Repository) StoreExists(ctx context.Context, storeID types.StoreID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", storeID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CategoryInStore reports whether the category exists and belongs to storeID.
func (r *Repository) CategoryInStore(ctx context.Context, storeID types.StoreID, categoryID types.CategoryID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ? AND store_id = ?", categoryID, storeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
