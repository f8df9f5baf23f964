package stores

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type storeRepository interface {
	Create(ctx context.Context, store *models.Store) (*models.Store, error)
	FindByID(ctx context.Context, id types.StoreID) (*models.Store, error)
	List(ctx context.Context) ([]models.Store, error)
	FindByOwner(ctx context.Context, ownerID types.AccountID) ([]models.Store, error)
	Update(ctx context.Context, id types.StoreID, updates map[string]any) error
	Delete(ctx context.Context, id types.StoreID) error
}

// Service exposes store operations.
type Service interface {
	Create(ctx context.Context, id *access.Identity, input CreateStoreInput) (*StoreDTO, error)
	List(ctx context.Context, id *access.Identity) ([]StoreDTO, error)
	GetByID(ctx context.Context, id *access.Identity, storeID types.StoreID) (*StoreDTO, error)
	GetByOwner(ctx context.Context, id *access.Identity, ownerID types.AccountID) ([]StoreDTO, error)
	Update(ctx context.Context, id *access.Identity, storeID types.StoreID, input UpdateStoreInput) (*StoreDTO, error)
	Delete(ctx context.Context, id *access.Identity, storeID types.StoreID) error
}

type service struct {
	repo     storeRepository
	policy   *access.Policy
	duration time.Duration
	now      func() time.Time
}

// NewService builds a store service with the provided repository.
func NewService(repo storeRepository, policy *access.Policy, posCfg config.POSConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("store repository required")
	}
	return &service{
		repo:     repo,
		policy:   policy,
		duration: posCfg.SubscriptionDuration(),
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, id *access.Identity, input CreateStoreInput) (*StoreDTO, error) {
	if err := s.policy.Authorize(id, access.ActionStoreCreate); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
	}
	tier := input.SubscriptionTier
	if tier == "" {
		tier = enums.SubscriptionTierFree
	}
	if !tier.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription_tier")
	}
	if err := validateTaxRate(input.TaxRate); err != nil {
		return nil, err
	}

	ownerID := id.AccountID
	if input.OwnerID != nil && !input.OwnerID.IsZero() {
		ownerID = *input.OwnerID
	}

	now := s.now().UTC()
	store := &models.Store{
		Name:                  name,
		OwnerID:               ownerID,
		Email:                 email,
		Phone:                 trimmedOrNil(input.Phone),
		Address:               trimmedOrNil(input.Address),
		SubscriptionTier:      tier,
		SubscriptionStatus:    enums.SubscriptionStatusActive,
		SubscriptionExpiresAt: now.Add(s.duration),
	}
	if input.TaxRate != nil {
		store.TaxRate = decimal.NullDecimal{Decimal: *input.TaxRate, Valid: true}
	}

	created, err := s.repo.Create(ctx, store)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create store")
	}
	return FromModel(created), nil
}

func (s *service) List(ctx context.Context, id *access.Identity) ([]StoreDTO, error) {
	if id == nil {
		return []StoreDTO{}, nil
	}
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores")
	}
	return fromModels(rows), nil
}

func (s *service) GetByID(ctx context.Context, id *access.Identity, storeID types.StoreID) (*StoreDTO, error) {
	if id == nil {
		return nil, nil
	}
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(store), nil
}

func (s *service) GetByOwner(ctx context.Context, id *access.Identity, ownerID types.AccountID) ([]StoreDTO, error) {
	if id == nil {
		return []StoreDTO{}, nil
	}
	rows, err := s.repo.FindByOwner(ctx, ownerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list stores by owner")
	}
	return fromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id *access.Identity, storeID types.StoreID, input UpdateStoreInput) (*StoreDTO, error) {
	if err := s.policy.Authorize(id, access.ActionStoreUpdate); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if !strings.Contains(email, "@") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid email")
		}
		updates["email"] = email
	}
	setNullableString(updates, "phone", input.Phone)
	setNullableString(updates, "address", input.Address)
	if input.SubscriptionTier != nil {
		if !input.SubscriptionTier.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription_tier")
		}
		updates["subscription_tier"] = *input.SubscriptionTier
	}
	if input.SubscriptionStatus != nil {
		if !input.SubscriptionStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid subscription_status")
		}
		updates["subscription_status"] = *input.SubscriptionStatus
	}
	if input.SubscriptionExpiresAt != nil {
		updates["subscription_expires_at"] = input.SubscriptionExpiresAt.UTC()
	}
	if input.TaxRate.Valid {
		if err := validateTaxRate(input.TaxRate.Value); err != nil {
			return nil, err
		}
		if input.TaxRate.Value == nil {
			updates["tax_rate"] = nil
		} else {
			updates["tax_rate"] = *input.TaxRate.Value
		}
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, storeID, updates); err != nil {
			return nil, mapLoadError(err)
		}
	}
	store, err := s.repo.FindByID(ctx, storeID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(store), nil
}

func (s *service) Delete(ctx context.Context, id *access.Identity, storeID types.StoreID) error {
	if err := s.policy.Authorize(id, access.ActionStoreDelete); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, storeID); err != nil {
		return mapLoadError(err)
	}
	return nil
}

func validateTaxRate(rate *decimal.Decimal) error {
	if rate == nil {
		return nil
	}
	if rate.IsNegative() || rate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "tax_rate must be between 0 and 1")
	}
	return nil
}

func setNullableString(updates map[string]any, column string, value types.Nullable[string]) {
	if !value.Valid {
		return
	}
	if trimmed := trimmedOrNil(value.Value); trimmed != nil {
		updates[column] = *trimmed
		return
	}
	updates[column] = nil
}

func trimmedOrNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
}
