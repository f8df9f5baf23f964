package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

const (
	defaultExpiryBatchSize = 200
	maxExpiryBatches       = 100
)

// SubscriptionExpiryJobParams configures the store expiry sweep.
type SubscriptionExpiryJobParams struct {
	Logger    *logger.Logger
	StoreRepo expiringStores
	BatchSize int
	Now       func() time.Time
}

type expiringStores interface {
	ListExpired(ctx context.Context, now time.Time, limit int) ([]models.Store, error)
	MarkInactive(ctx context.Context, id types.StoreID, now time.Time) (bool, error)
}

// NewSubscriptionExpiryJob builds the job that deactivates lapsed stores.
func NewSubscriptionExpiryJob(params SubscriptionExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.StoreRepo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	batch := params.BatchSize
	if batch <= 0 {
		batch = defaultExpiryBatchSize
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	return &subscriptionExpiryJob{
		logg:  params.Logger,
		repo:  params.StoreRepo,
		batch: batch,
		now:   now,
	}, nil
}

type subscriptionExpiryJob struct {
	logg  *logger.Logger
	repo  expiringStores
	batch int
	now   func() time.Time
}

func (j *subscriptionExpiryJob) Name() string { return "subscription-expiry" }

// Run pages through lapsed active stores until a batch comes back short or
// makes no progress. Stores that fail to update stay active for the next run.
func (j *subscriptionExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	var (
		errs    error
		scanned int
		expired int
		batches int
	)
	for batches < maxExpiryBatches {
		batches++
		stores, err := j.repo.ListExpired(ctx, now, j.batch)
		if err != nil {
			return multierr.Append(errs, fmt.Errorf("list expired stores: %w", err))
		}
		scanned += len(stores)

		progressed := 0
		for i := range stores {
			store := &stores[i]
			ok, err := j.repo.MarkInactive(ctx, store.ID, now)
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("store %s: %w", store.ID, err))
				continue
			}
			if ok {
				progressed++
				j.logg.Info(j.logg.WithStoreID(ctx, store.ID.String()), "store subscription expired")
			}
		}
		expired += progressed

		if len(stores) < j.batch || progressed == 0 {
			break
		}
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates": scanned,
		"expired":    expired,
		"batches":    batches,
	})
	j.logg.Info(reportCtx, "subscription expiry sweep complete")
	return errs
}
