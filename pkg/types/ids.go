package types

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ID is a UUID tagged with the entity it identifies, so a ProductID cannot be
// passed where a SaleID is expected. Scanning, valuing and text marshaling are
// promoted from the embedded uuid.UUID.
type ID[T any] struct {
	uuid.UUID
}

// IsZero reports whether the identifier is unset.
func (id ID[T]) IsZero() bool {
	return id.UUID == uuid.Nil
}

// Ptr returns a pointer to a copy of id.
func (id ID[T]) Ptr() *ID[T] {
	return &id
}

type (
	storeKind       struct{}
	categoryKind    struct{}
	productKind     struct{}
	saleKind        struct{}
	saleItemKind    struct{}
	userKind        struct{}
	accountKind     struct{}
	barcodeScanKind struct{}
)

type (
	StoreID       = ID[storeKind]
	CategoryID    = ID[categoryKind]
	ProductID     = ID[productKind]
	SaleID        = ID[saleKind]
	SaleItemID    = ID[saleItemKind]
	UserID        = ID[userKind]
	AccountID     = ID[accountKind]
	BarcodeScanID = ID[barcodeScanKind]
)

// Identifier is satisfied by every ID[T] kind.
type Identifier interface {
	~struct{ uuid.UUID }
}

// New returns a fresh random identifier of the requested kind.
func New[I Identifier]() I {
	return I(struct{ uuid.UUID }{uuid.New()})
}

// FromUUID tags a raw uuid with the requested kind.
func FromUUID[I Identifier](value uuid.UUID) I {
	return I(struct{ uuid.UUID }{value})
}

// Parse decodes a textual UUID into the requested identifier kind.
func Parse[I Identifier](raw string) (I, error) {
	var zero I
	value := strings.TrimSpace(raw)
	if value == "" {
		return zero, fmt.Errorf("identifier is required")
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return zero, fmt.Errorf("invalid identifier %q: %w", value, err)
	}
	return I(struct{ uuid.UUID }{parsed}), nil
}
