package stores

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// StoreDTO exposes tenant data in API responses.
type StoreDTO struct {
	ID                    types.StoreID            `json:"id"`
	Name                  string                   `json:"name"`
	OwnerID               types.AccountID          `json:"owner_id"`
	Email                 string                   `json:"email"`
	Phone                 *string                  `json:"phone,omitempty"`
	Address               *string                  `json:"address,omitempty"`
	SubscriptionTier      enums.SubscriptionTier   `json:"subscription_tier"`
	SubscriptionStatus    enums.SubscriptionStatus `json:"subscription_status"`
	SubscriptionExpiresAt time.Time                `json:"subscription_expires_at"`
	TaxRate               *decimal.Decimal         `json:"tax_rate,omitempty"`
	CreatedAt             time.Time                `json:"created_at"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

// CreateStoreInput holds creation-time data for a new store.
type CreateStoreInput struct {
	Name             string
	OwnerID          *types.AccountID
	Email            string
	Phone            *string
	Address          *string
	SubscriptionTier enums.SubscriptionTier
	TaxRate          *decimal.Decimal
}

// UpdateStoreInput captures the allowed store fields for mutation.
type UpdateStoreInput struct {
	Name                  *string
	Email                 *string
	Phone                 types.Nullable[string]
	Address               types.Nullable[string]
	SubscriptionTier      *enums.SubscriptionTier
	SubscriptionStatus    *enums.SubscriptionStatus
	SubscriptionExpiresAt *time.Time
	TaxRate               types.Nullable[decimal.Decimal]
}

// FromModel maps the persisted store into a DTO.
func FromModel(m *models.Store) *StoreDTO {
	if m == nil {
		return nil
	}
	dto := &StoreDTO{
		ID:                    m.ID,
		Name:                  m.Name,
		OwnerID:               m.OwnerID,
		Email:                 m.Email,
		Phone:                 m.Phone,
		Address:               m.Address,
		SubscriptionTier:      m.SubscriptionTier,
		SubscriptionStatus:    m.SubscriptionStatus,
		SubscriptionExpiresAt: m.SubscriptionExpiresAt,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
	if m.TaxRate.Valid {
		rate := m.TaxRate.Decimal
		dto.TaxRate = &rate
	}
	return dto
}

func fromModels(rows []models.Store) []StoreDTO {
	out := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
