package sales

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/db/models"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// SaleDTO is the sale payload returned to clients.
type SaleDTO struct {
	ID            types.SaleID        `json:"id"`
	StoreID       types.StoreID       `json:"store_id"`
	SaleNumber    string              `json:"sale_number"`
	CashierID     types.AccountID     `json:"cashier_id"`
	Items         []SaleItemDTO       `json:"items"`
	SubtotalCents int64               `json:"subtotal_cents"`
	TaxCents      int64               `json:"tax_cents"`
	DiscountCents int64               `json:"discount_cents"`
	TotalCents    int64               `json:"total_cents"`
	PaymentMethod enums.PaymentMethod `json:"payment_method"`
	Status        enums.SaleStatus    `json:"status"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type SaleItemDTO struct {
	ProductID     types.ProductID `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Quantity      int             `json:"quantity"`
	PriceCents    int64           `json:"price_cents"`
	SubtotalCents int64           `json:"subtotal_cents"`
}

// ListResult is a page of sales plus the cursor for the next page.
type ListResult struct {
	Sales      []SaleDTO `json:"sales"`
	NextCursor string    `json:"next_cursor,omitempty"`
}

// QuoteDTO is the server-side pricing of a cart.
type QuoteDTO struct {
	Items         []SaleItemDTO `json:"items"`
	TaxRate       string        `json:"tax_rate"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxCents      int64         `json:"tax_cents"`
	DiscountCents int64         `json:"discount_cents"`
	TotalCents    int64         `json:"total_cents"`
}

// LineItemInput is one requested cart line. Price and subtotal are optional
// client-side values that are checked against the server's pricing.
type LineItemInput struct {
	ProductID     types.ProductID
	ProductName   string
	Quantity      int
	PriceCents    *int64
	SubtotalCents *int64
}

// ClientTotals are the totals the register computed, if it sent any.
type ClientTotals struct {
	SubtotalCents *int64
	TaxCents      *int64
	TotalCents    *int64
}

type CreateSaleInput struct {
	Items         []LineItemInput
	DiscountCents int64
	PaymentMethod enums.PaymentMethod
	ClientTotals  ClientTotals
}

type QuoteInput struct {
	Items         []LineItemInput
	DiscountCents int64
}

// FromModel maps a persisted sale, with its items, to a DTO.
func FromModel(m *models.Sale) *SaleDTO {
	if m == nil {
		return nil
	}
	items := make([]SaleItemDTO, 0, len(m.Items))
	for _, item := range m.Items {
		items = append(items, SaleItemDTO{
			ProductID:     item.ProductID,
			ProductName:   item.ProductName,
			Quantity:      item.Quantity,
			PriceCents:    item.PriceCents,
			SubtotalCents: item.SubtotalCents,
		})
	}
	return &SaleDTO{
		ID:            m.ID,
		StoreID:       m.StoreID,
		SaleNumber:    m.SaleNumber,
		CashierID:     m.CashierID,
		Items:         items,
		SubtotalCents: m.SubtotalCents,
		TaxCents:      m.TaxCents,
		DiscountCents: m.DiscountCents,
		TotalCents:    m.TotalCents,
		PaymentMethod: m.PaymentMethod,
		Status:        m.Status,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

func fromModels(rows []models.Sale) []SaleDTO {
	out := make([]SaleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
