package stores

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/pkg/db/dbtest"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

func TestRepositoryOwnerLookupAndTaxRate(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t).DB())
	owner := types.New[types.AccountID]()

	created, err := repo.Create(ctx, &models.Store{
		Name:                  "Harbor",
		OwnerID:               owner,
		Email:                 "harbor@example.com",
		SubscriptionTier:      enums.SubscriptionTierBasic,
		SubscriptionStatus:    enums.SubscriptionStatusActive,
		SubscriptionExpiresAt: time.Now().Add(time.Hour),
		TaxRate:               decimal.NullDecimal{Decimal: decimal.RequireFromString("0.0725"), Valid: true},
	})
	require.NoError(t, err)

	owned, err := repo.FindByOwner(ctx, owner)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	require.True(t, owned[0].TaxRate.Valid)
	require.True(t, owned[0].TaxRate.Decimal.Equal(decimal.RequireFromString("0.0725")))

	require.NoError(t, repo.Update(ctx, created.ID, map[string]any{"tax_rate": nil}))
	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.False(t, loaded.TaxRate.Valid)

	none, err := repo.FindByOwner(ctx, types.New[types.AccountID]())
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestRepositoryExpirySweepHelpers(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t).DB())
	now := time.Now().UTC()

	mk := func(name string, status enums.SubscriptionStatus, expires time.Time) *models.Store {
		s, err := repo.Create(ctx, &models.Store{
			Name:                  name,
			OwnerID:               types.New[types.AccountID](),
			Email:                 name + "@example.com",
			SubscriptionTier:      enums.SubscriptionTierFree,
			SubscriptionStatus:    status,
			SubscriptionExpiresAt: expires,
		})
		require.NoError(t, err)
		return s
	}
	lapsed := mk("lapsed", enums.SubscriptionStatusActive, now.Add(-time.Hour))
	mk("current", enums.SubscriptionStatusActive, now.Add(time.Hour))
	mk("suspended", enums.SubscriptionStatusSuspended, now.Add(-time.Hour))

	expired, err := repo.ListExpired(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, lapsed.ID, expired[0].ID)

	changed, err := repo.MarkInactive(ctx, lapsed.ID, now)
	require.NoError(t, err)
	require.True(t, changed)

	changed, err = repo.MarkInactive(ctx, lapsed.ID, now)
	require.NoError(t, err)
	require.False(t, changed)

	reloaded, err := repo.FindByID(ctx, lapsed.ID)
	require.NoError(t, err)
	require.Equal(t, enums.SubscriptionStatusInactive, reloaded.SubscriptionStatus)
}
