package reports

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

const dayLayout = "2006-01-02"

type salesReader interface {
	SalesSince(ctx context.Context, storeID types.StoreID, since time.Time) ([]saleRow, error)
}

// Service aggregates sales into dashboard figures.
type Service interface {
	GetStats(ctx context.Context, id *access.Identity, storeID types.StoreID, days int) (*StatsDTO, error)
	GetDailyBreakdown(ctx context.Context, id *access.Identity, storeID types.StoreID, days int) ([]DailyDTO, error)
}

type service struct {
	repo salesReader
	now  func() time.Time
}

func NewService(repo salesReader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reports repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) GetStats(ctx context.Context, id *access.Identity, storeID types.StoreID, days int) (*StatsDTO, error) {
	if id == nil {
		return nil, nil
	}
	start, rows, err := s.load(ctx, storeID, days)
	if err != nil {
		return nil, err
	}

	var acc tally
	for _, row := range rows {
		acc.add(row)
	}
	return &StatsDTO{
		Days:                    days,
		WindowStart:             start,
		TotalRevenueCents:       acc.revenue,
		TotalTransactions:       acc.transactions,
		AverageTransactionCents: acc.average(),
		TotalRefunds:            acc.refunds,
	}, nil
}

func (s *service) GetDailyBreakdown(ctx context.Context, id *access.Identity, storeID types.StoreID, days int) ([]DailyDTO, error) {
	if id == nil {
		return []DailyDTO{}, nil
	}
	start, rows, err := s.load(ctx, storeID, days)
	if err != nil {
		return nil, err
	}

	buckets := map[string]*tally{}
	for _, row := range rows {
		key := row.CreatedAt.UTC().Format(dayLayout)
		b, ok := buckets[key]
		if !ok {
			b = &tally{}
			buckets[key] = b
		}
		b.add(row)
	}

	out := []DailyDTO{}
	last := s.now().UTC()
	for day := truncateDay(start); !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(dayLayout)
		b := buckets[key]
		if b == nil {
			b = &tally{}
		}
		out = append(out, DailyDTO{
			Date:                    key,
			TotalRevenueCents:       b.revenue,
			TotalTransactions:       b.transactions,
			AverageTransactionCents: b.average(),
			TotalRefunds:            b.refunds,
		})
	}
	return out, nil
}

func (s *service) load(ctx context.Context, storeID types.StoreID, days int) (time.Time, []saleRow, error) {
	if days <= 0 {
		return time.Time{}, nil, pkgerrors.New(pkgerrors.CodeValidation, "days must be positive")
	}
	start := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	rows, err := s.repo.SalesSince(ctx, storeID, start)
	if err != nil {
		return time.Time{}, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sales for report")
	}
	return start, rows, nil
}

type tally struct {
	revenue      int64
	transactions int
	refunds      int
}

// add counts completed sales toward revenue and refunded ones toward refunds.
// Cancelled sales count toward neither.
func (t *tally) add(row saleRow) {
	switch row.Status {
	case enums.SaleStatusCompleted:
		t.revenue += row.TotalCents
		t.transactions++
	case enums.SaleStatusRefunded:
		t.refunds++
	}
}

func (t *tally) average() int64 {
	if t.transactions == 0 {
		return 0
	}
	return decimal.NewFromInt(t.revenue).
		Div(decimal.NewFromInt(int64(t.transactions))).
		Round(0).
		IntPart()
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
