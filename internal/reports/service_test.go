package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/db/dbtest"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type stubReader struct {
	rows  []saleRow
	err   error
	since time.Time
}

func (s *stubReader) SalesSince(_ context.Context, _ types.StoreID, since time.Time) ([]saleRow, error) {
	s.since = since
	return s.rows, s.err
}

var fixedNow = time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)

func newStubService(t *testing.T, reader *stubReader) *service {
	t.Helper()
	svc, err := NewService(reader)
	require.NoError(t, err)
	impl := svc.(*service)
	impl.now = func() time.Time { return fixedNow }
	return impl
}

func identity() *access.Identity {
	return &access.Identity{AccountID: types.New[types.AccountID](), Role: enums.UserRoleStoreOwner}
}

func TestGetStatsReducesWindow(t *testing.T) {
	reader := &stubReader{rows: []saleRow{
		{Status: enums.SaleStatusCompleted, TotalCents: 3300, CreatedAt: fixedNow.Add(-time.Hour)},
		{Status: enums.SaleStatusCompleted, TotalCents: 1001, CreatedAt: fixedNow.Add(-2 * time.Hour)},
		{Status: enums.SaleStatusCompleted, TotalCents: 2000, CreatedAt: fixedNow.Add(-3 * time.Hour)},
		{Status: enums.SaleStatusRefunded, TotalCents: 9999, CreatedAt: fixedNow.Add(-4 * time.Hour)},
		{Status: enums.SaleStatusCancelled, TotalCents: 500, CreatedAt: fixedNow.Add(-5 * time.Hour)},
	}}
	svc := newStubService(t, reader)

	stats, err := svc.GetStats(context.Background(), identity(), types.New[types.StoreID](), 7)
	require.NoError(t, err)
	require.Equal(t, fixedNow.Add(-7*24*time.Hour), reader.since)
	require.Equal(t, int64(6301), stats.TotalRevenueCents)
	require.Equal(t, 3, stats.TotalTransactions)
	require.Equal(t, int64(2100), stats.AverageTransactionCents)
	require.Equal(t, 1, stats.TotalRefunds)
}

func TestGetStatsEmptyAndDegraded(t *testing.T) {
	svc := newStubService(t, &stubReader{})

	stats, err := svc.GetStats(context.Background(), identity(), types.New[types.StoreID](), 30)
	require.NoError(t, err)
	require.Zero(t, stats.AverageTransactionCents)
	require.Zero(t, stats.TotalTransactions)

	none, err := svc.GetStats(context.Background(), nil, types.New[types.StoreID](), 30)
	require.NoError(t, err)
	require.Nil(t, none)

	_, err = svc.GetStats(context.Background(), identity(), types.New[types.StoreID](), 0)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeValidation))
}

func TestGetStatsWrapsRepositoryErrors(t *testing.T) {
	svc := newStubService(t, &stubReader{err: errors.New("boom")})
	_, err := svc.GetStats(context.Background(), identity(), types.New[types.StoreID](), 30)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeDependency))
}

func TestGetDailyBreakdownFillsEveryDay(t *testing.T) {
	reader := &stubReader{rows: []saleRow{
		{Status: enums.SaleStatusCompleted, TotalCents: 1000, CreatedAt: time.Date(2026, 5, 8, 9, 0, 0, 0, time.UTC)},
		{Status: enums.SaleStatusCompleted, TotalCents: 3000, CreatedAt: time.Date(2026, 5, 8, 18, 0, 0, 0, time.UTC)},
		{Status: enums.SaleStatusRefunded, TotalCents: 3000, CreatedAt: time.Date(2026, 5, 10, 8, 0, 0, 0, time.UTC)},
	}}
	svc := newStubService(t, reader)

	days, err := svc.GetDailyBreakdown(context.Background(), identity(), types.New[types.StoreID](), 3)
	require.NoError(t, err)
	require.Len(t, days, 4)
	require.Equal(t, "2026-05-07", days[0].Date)
	require.Equal(t, "2026-05-10", days[3].Date)
	require.Equal(t, int64(4000), days[1].TotalRevenueCents)
	require.Equal(t, int64(2000), days[1].AverageTransactionCents)
	require.Equal(t, 1, days[3].TotalRefunds)
	require.Zero(t, days[2].TotalTransactions)
}

func TestRepositorySalesSince(t *testing.T) {
	ctx := context.Background()
	client := dbtest.Open(t)
	repo := NewRepository(client.DB())
	storeID := types.New[types.StoreID]()
	cashier := types.New[types.AccountID]()

	insert := func(status enums.SaleStatus, total int64, at time.Time) {
		sale := &models.Sale{
			ID:            types.New[types.SaleID](),
			StoreID:       storeID,
			SaleNumber:    "SALE-1",
			CashierID:     cashier,
			SubtotalCents: total,
			TotalCents:    total,
			PaymentMethod: enums.PaymentMethodCash,
			Status:        status,
			CreatedAt:     at,
			UpdatedAt:     at,
		}
		require.NoError(t, client.DB().Create(sale).Error)
	}
	insert(enums.SaleStatusCompleted, 100, fixedNow.Add(-40*24*time.Hour))
	insert(enums.SaleStatusCompleted, 200, fixedNow.Add(-2*time.Hour))
	insert(enums.SaleStatusRefunded, 300, fixedNow.Add(-time.Hour))

	rows, err := repo.SalesSince(ctx, storeID, fixedNow.Add(-30*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, int64(200), rows[0].TotalCents)
	require.Equal(t, enums.SaleStatusRefunded, rows[1].Status)

	svc, err := NewService(repo)
	require.NoError(t, err)
	svc.(*service).now = func() time.Time { return fixedNow }
	stats, err := svc.GetStats(ctx, identity(), storeID, 30)
	require.NoError(t, err)
	require.Equal(t, int64(200), stats.TotalRevenueCents)
	require.Equal(t, 1, stats.TotalRefunds)
}
