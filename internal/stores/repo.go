package stores

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// Repository handles store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to store operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new store row.
func (r *Repository) Create(ctx context.Context, store *models.Store) (*models.Store, error) {
	if store.ID.IsZero() {
		store.ID = types.New[types.StoreID]()
	}
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// FindByID loads a store by its id.
func (r *Repository) FindByID(ctx context.Context, id types.StoreID) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// List returns every store, newest first.
func (r *Repository) List(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// FindByOwner returns all stores owned by the provided account.
func (r *Repository) FindByOwner(ctx context.Context, ownerID types.AccountID) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// Update writes the given columns.
func (r *Repository) Update(ctx context.Context, id types.StoreID, updates map[string]any) error {
	updates["updated_at"] = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete removes only the store row; dependent rows are left in place.
func (r *Repository) Delete(ctx context.Context, id types.StoreID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Store{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListExpired returns up to limit active stores whose subscription lapsed before now.
func (r *Repository) ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Store, error) {
	var stores []models.Store
	query := r.db.WithContext(ctx).
		Where("subscription_status = ? AND subscription_expires_at < ?", enums.SubscriptionStatusActive, now).
		Order("subscription_expires_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// MarkInactive flips an active store to inactive. It reports false when the
// store was already moved out of active.
func (r *Repository) MarkInactive(ctx context.Context, id types.StoreID, now time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("id = ? AND subscription_status = ?", id, enums.SubscriptionStatusActive).
		Updates(map[string]any{
			"subscription_status": enums.SubscriptionStatusInactive,
			"updated_at":          now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
