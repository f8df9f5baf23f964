package models

import (
	"time"

	"github.com/angelmondragon/pos-backend/pkg/enums"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

// Sale is a recorded register transaction.
type Sale struct {
	ID            types.SaleID        `gorm:"column:id;type:uuid;primaryKey"`
	StoreID       types.StoreID       `gorm:"column:store_id;type:uuid;not null;index:idx_sales_store_created,priority:1"`
	SaleNumber    string              `gorm:"column:sale_number;not null;index"`
	CashierID     types.AccountID     `gorm:"column:cashier_id;type:uuid;not null;index"`
	SubtotalCents int64               `gorm:"column:subtotal_cents;not null"`
	TaxCents      int64               `gorm:"column:tax_cents;not null"`
	DiscountCents int64               `gorm:"column:discount_cents;not null;default:0"`
	TotalCents    int64               `gorm:"column:total_cents;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status        enums.SaleStatus    `gorm:"column:status;not null;index"`
	Items         []SaleItem          `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time           `gorm:"column:created_at;index:idx_sales_store_created,priority:2"`
	UpdatedAt     time.Time           `gorm:"column:updated_at"`
}

// SaleItem snapshots a product line at the time of sale.
type SaleItem struct {
	ID            types.SaleItemID `gorm:"column:id;type:uuid;primaryKey"`
	SaleID        types.SaleID     `gorm:"column:sale_id;type:uuid;not null;index"`
	Position      int              `gorm:"column:position;not null"`
	ProductID     types.ProductID  `gorm:"column:product_id;type:uuid;not null"`
	ProductName   string           `gorm:"column:product_name;not null"`
	Quantity      int              `gorm:"column:quantity;not null"`
	PriceCents    int64            `gorm:"column:price_cents;not null"`
	SubtotalCents int64            `gorm:"column:subtotal_cents;not null"`
}
