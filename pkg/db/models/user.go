package models

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// User is the staff profile attached to an authentication account.
type User struct {
	ID        types.UserID    `gorm:"column:id;type:uuid;primaryKey"`
	AccountID types.AccountID `gorm:"column:account_id;type:uuid;not null;uniqueIndex"`
	StoreID   *types.StoreID  `gorm:"column:store_id;type:uuid;index"`
	Role      enums.UserRole  `gorm:"column:role;not null;index"`
	Name      string          `gorm:"column:name;not null"`
	Email     string          `gorm:"column:email;not null"`
	IsActive  bool            `gorm:"column:is_active;not null"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
