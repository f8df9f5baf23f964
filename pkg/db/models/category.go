package models

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/types"
)

type Category struct {
	ID          types.CategoryID `gorm:"column:id;type:uuid;primaryKey"`
	StoreID     types.StoreID    `gorm:"column:store_id;type:uuid;not null;index"`
	Name        string           `gorm:"column:name;not null"`
	Description *string          `gorm:"column:description"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
