package products

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/pkg/db/dbtest"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

func seedStore(t *testing.T, conn *gorm.DB) *models.Store {
	t.Helper()
	store := &models.Store{
		ID:                    types.New[types.StoreID](),
		Name:                  "Corner Shop",
		OwnerID:               types.New[types.AccountID](),
		Email:                 "owner@example.com",
		SubscriptionTier:      enums.SubscriptionTierFree,
		SubscriptionStatus:    enums.SubscriptionStatusActive,
		SubscriptionExpiresAt: time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, conn.Create(store).Error)
	return store
}

func seedProduct(t *testing.T, repo *Repository, storeID types.StoreID, name string, qty, minQty int) *models.Product {
	t.Helper()
	product, err := repo.Create(context.Background(), &models.Product{
		StoreID:     storeID,
		Name:        name,
		SKU:         "SKU-" + name,
		PriceCents:  1000,
		Quantity:    qty,
		MinQuantity: minQty,
		IsActive:    true,
	})
	require.NoError(t, err)
	return product
}

func TestRepositoryCreateAssignsIDAndVersion(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	store := seedStore(t, client.DB())

	product := seedProduct(t, repo, store.ID, "Coffee", 0, 0)
	require.False(t, product.ID.IsZero())
	require.Equal(t, 1, product.Version)

	loaded, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	require.Equal(t, 0, loaded.Quantity)
	require.True(t, loaded.IsActive)
}

func TestDecrementIfAvailableNeverGoesNegative(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	store := seedStore(t, client.DB())
	product := seedProduct(t, repo, store.ID, "Tea", 5, 1)

	ok, err := repo.DecrementIfAvailable(ctx, product.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DecrementIfAvailable(ctx, product.ID, 3)
	require.NoError(t, err)
	require.False(t, ok)

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, 2, loaded.Quantity)
	require.Equal(t, 2, loaded.Version)
}

func TestAdjustAndSetQuantity(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	store := seedStore(t, client.DB())
	product := seedProduct(t, repo, store.ID, "Milk", 2, 0)

	ok, err := repo.AdjustQuantity(ctx, product.ID, 4)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, repo.SetQuantity(ctx, product.ID, -3))
	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, -3, loaded.Quantity)

	ok, err = repo.AdjustQuantity(ctx, types.New[types.ProductID](), 1)
	require.NoError(t, err)
	require.False(t, ok)

	require.ErrorIs(t, repo.SetQuantity(ctx, types.New[types.ProductID](), 1), gorm.ErrRecordNotFound)
}

func TestUpdateWithVersionDetectsStaleWrites(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	store := seedStore(t, client.DB())
	product := seedProduct(t, repo, store.ID, "Bread", 3, 1)

	require.NoError(t, repo.UpdateWithVersion(ctx, product.ID, 1, map[string]any{"name": "Rye Bread"}))
	err := repo.UpdateWithVersion(ctx, product.ID, 1, map[string]any{"name": "Stale"})
	require.ErrorIs(t, err, ErrVersionMismatch)

	loaded, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	require.Equal(t, "Rye Bread", loaded.Name)
	require.Equal(t, 2, loaded.Version)
}

func TestLookupsAndLowStock(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	store := seedStore(t, client.DB())
	other := seedStore(t, client.DB())

	barcode := "4006381333931"
	low := seedProduct(t, repo, store.ID, "Apples", 4, 5)
	healthy := seedProduct(t, repo, store.ID, "Pears", 10, 5)
	elsewhere := &models.Product{StoreID: other.ID, Name: "Plums", SKU: "SKU-Plums", Barcode: &barcode, IsActive: true}
	_, err := repo.Create(ctx, elsewhere)
	require.NoError(t, err)

	rows, err := repo.LowStock(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, low.ID, rows[0].ID)

	found, err := repo.FindBySKU(ctx, store.ID, "SKU-Pears")
	require.NoError(t, err)
	require.Equal(t, healthy.ID, found.ID)

	_, err = repo.FindBySKU(ctx, other.ID, "SKU-Pears")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	global, err := repo.FindByBarcode(ctx, barcode, nil)
	require.NoError(t, err)
	require.Equal(t, elsewhere.ID, global.ID)

	_, err = repo.FindByBarcode(ctx, barcode, &store.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindInStore(ctx, other.ID, low.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	all, err := repo.ListByStore(ctx, store.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "Apples", all[0].Name)
}

func TestDeleteMissingProduct(t *testing.T) {
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	require.ErrorIs(t, repo.Delete(context.Background(), types.New[types.ProductID]()), gorm.ErrRecordNotFound)
}
