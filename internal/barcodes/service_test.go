package barcodes

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/pkg/db/dbtest"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

func setup(t *testing.T) (*service, *models.Store, *models.Product) {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()

	store := &models.Store{
		ID:                    types.New[types.StoreID](),
		Name:                  "Corner Shop",
		OwnerID:               types.New[types.AccountID](),
		Email:                 "owner@example.com",
		SubscriptionTier:      enums.SubscriptionTierFree,
		SubscriptionStatus:    enums.SubscriptionStatusActive,
		SubscriptionExpiresAt: time.Now().UTC().Add(24 * time.Hour),
	}
	require.NoError(t, conn.Create(store).Error)

	productRepo := products.NewRepository(conn)
	code := "0123456789012"
	product, err := productRepo.Create(context.Background(), &models.Product{
		StoreID:    store.ID,
		Name:       "Cola",
		SKU:        "COLA",
		Barcode:    &code,
		PriceCents: 199,
		Quantity:   4,
		IsActive:   true,
	})
	require.NoError(t, err)

	svc, err := NewService(NewRepository(conn), productRepo, nil)
	require.NoError(t, err)
	return svc.(*service), store, product
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
}

func TestScanLogsHitsAndMisses(t *testing.T) {
	ctx := context.Background()
	svc, store, product := setup(t)
	id := &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleCashier}

	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	hit, err := svc.Scan(ctx, id, store.ID, " 0123456789012 ")
	require.NoError(t, err)
	require.NotNil(t, hit)
	require.Equal(t, product.ID, hit.ID)

	miss, err := svc.Scan(ctx, id, store.ID, "999")
	require.NoError(t, err)
	require.Nil(t, miss)

	scans, err := svc.ListScans(ctx, id, store.ID, 10)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	require.Equal(t, "999", scans[0].Barcode)
	require.False(t, scans[0].Success)
	require.Nil(t, scans[0].ProductID)
	require.True(t, scans[1].Success)
	require.Equal(t, product.ID, *scans[1].ProductID)
	require.Equal(t, id.AccountID, *scans[1].AccountID)

	limited, err := svc.ListScans(ctx, id, store.ID, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
}

func TestScanIsStoreScoped(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setup(t)
	id := &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleCashier}

	other := types.New[types.StoreID]()
	found, err := svc.Scan(ctx, id, other, "0123456789012")
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestScanWithoutIdentityWritesNothing(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := setup(t)

	found, err := svc.Scan(ctx, nil, store.ID, "0123456789012")
	require.NoError(t, err)
	require.Nil(t, found)

	id := &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleCashier}
	scans, err := svc.ListScans(ctx, id, store.ID, 0)
	require.NoError(t, err)
	require.Empty(t, scans)

	_, err = svc.Scan(ctx, id, store.ID, "  ")
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}
