package products

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID          types.ProductID   `json:"id"`
	StoreID     types.StoreID     `json:"store_id"`
	CategoryID  *types.CategoryID `json:"category_id,omitempty"`
	Name        string            `json:"name"`
	Description *string           `json:"description,omitempty"`
	SKU         string            `json:"sku"`
	Barcode     *string           `json:"barcode,omitempty"`
	PriceCents  int64             `json:"price_cents"`
	CostCents   *int64            `json:"cost_cents,omitempty"`
	Quantity    int               `json:"quantity"`
	MinQuantity int               `json:"min_quantity"`
	Unit        *string           `json:"unit,omitempty"`
	IsActive    bool              `json:"is_active"`
	LowStock    bool              `json:"low_stock"`
	Version     int               `json:"version"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// FromModel maps a persisted product to its DTO.
func FromModel(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}
	return &ProductDTO{
		ID:          p.ID,
		StoreID:     p.StoreID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Barcode:     p.Barcode,
		PriceCents:  p.PriceCents,
		CostCents:   p.CostCents,
		Quantity:    p.Quantity,
		MinQuantity: p.MinQuantity,
		Unit:        p.Unit,
		IsActive:    p.IsActive,
		LowStock:    p.IsLowStock(),
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func fromModels(rows []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}

// CreateProductInput carries the fields accepted on product creation.
type CreateProductInput struct {
	CategoryID  *types.CategoryID
	Name        string
	Description *string
	SKU         string
	Barcode     *string
	PriceCents  int64
	CostCents   *int64
	Quantity    int
	MinQuantity int
	Unit        *string
}

// UpdateProductInput is a partial patch. Nullable fields distinguish "clear"
// from "leave untouched".
type UpdateProductInput struct {
	CategoryID      types.Nullable[types.CategoryID]
	Name            *string
	Description     types.Nullable[string]
	SKU             *string
	Barcode         types.Nullable[string]
	PriceCents      *int64
	CostCents       types.Nullable[int64]
	Quantity        *int
	MinQuantity     *int
	Unit            types.Nullable[string]
	IsActive        *bool
	ExpectedVersion *int
}
