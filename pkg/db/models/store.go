package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// Store is the tenant root: every category, product, sale and scan points at one.
type Store struct {
	ID                    types.StoreID            `gorm:"column:id;type:uuid;primaryKey"`
	Name                  string                   `gorm:"column:name;not null"`
	OwnerID               types.AccountID          `gorm:"column:owner_id;type:uuid;not null;index"`
	Email                 string                   `gorm:"column:email;not null"`
	Phone                 *string                  `gorm:"column:phone"`
	Address               *string                  `gorm:"column:address"`
	SubscriptionTier      enums.SubscriptionTier   `gorm:"column:subscription_tier;not null;default:'free'"`
	SubscriptionStatus    enums.SubscriptionStatus `gorm:"column:subscription_status;not null;default:'active';index"`
	SubscriptionExpiresAt time.Time                `gorm:"column:subscription_expires_at;not null"`
	TaxRate               decimal.NullDecimal      `gorm:"column:tax_rate;type:numeric(6,4)"`
	CreatedAt             time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}
