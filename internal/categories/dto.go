package categories

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type CategoryDTO struct {
	ID          types.CategoryID `json:"id"`
	StoreID     types.StoreID    `json:"store_id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func FromModel(c *models.Category) *CategoryDTO {
	if c == nil {
		return nil
	}
	return &CategoryDTO{
		ID:          c.ID,
		StoreID:     c.StoreID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

type CreateCategoryInput struct {
	Name        string
	Description *string
}

type UpdateCategoryInput struct {
	Name        *string
	Description types.Nullable[string]
}
