package products

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type productRepository interface {
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByID(ctx context.Context, id types.ProductID) (*models.Product, error)
	ListByStore(ctx context.Context, storeID types.StoreID) ([]models.Product, error)
	ListByCategory(ctx context.Context, categoryID types.CategoryID) ([]models.Product, error)
	FindBySKU(ctx context.Context, storeID types.StoreID, sku string) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string, storeID *types.StoreID) (*models.Product, error)
	LowStock(ctx context.Context, storeID types.StoreID) ([]models.Product, error)
	UpdateWithVersion(ctx context.Context, id types.ProductID, expectedVersion int, updates map[string]any) error
	SetQuantity(ctx context.Context, id types.ProductID, quantity int) error
	Delete(ctx context.Context, id types.ProductID) error
	StoreExists(ctx context.Context, storeID types.StoreID) (bool, error)
	CategoryInStore(ctx context.Context, storeID types.StoreID, categoryID types.CategoryID) (bool, error)
}

// Service exposes the inventory ledger.
type Service interface {
	Create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateProductInput) (*ProductDTO, error)
	Get(ctx context.Context, id *access.Identity, productID types.ProductID) (*ProductDTO, error)
	ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]ProductDTO, error)
	ListByCategory(ctx context.Context, id *access.Identity, categoryID types.CategoryID) ([]ProductDTO, error)
	FindBySKU(ctx context.Context, id *access.Identity, storeID types.StoreID, sku string) (*ProductDTO, error)
	FindByBarcode(ctx context.Context, id *access.Identity, barcode string, storeID *types.StoreID) (*ProductDTO, error)
	LowStock(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]ProductDTO, error)
	Update(ctx context.Context, id *access.Identity, productID types.ProductID, input UpdateProductInput) (*ProductDTO, error)
	UpdateQuantity(ctx context.Context, id *access.Identity, productID types.ProductID, quantity int) (*ProductDTO, error)
	Delete(ctx context.Context, id *access.Identity, productID types.ProductID) error
}

type service struct {
	repo   productRepository
	policy *access.Policy
}

// NewService builds the product service.
func NewService(repo productRepository, policy *access.Policy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, policy: policy}, nil
}

func (s *service) Create(ctx context.Context, id *access.Identity, storeID types.StoreID, input CreateProductInput) (*ProductDTO, error) {
	if err := s.policy.Authorize(id, access.ActionProductWrite); err != nil {
		return nil, err
	}
	if err := validateCreate(&input); err != nil {
		return nil, err
	}

	ok, err := s.repo.StoreExists(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load store")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if input.CategoryID != nil {
		if err := s.ensureCategory(ctx, storeID, *input.CategoryID); err != nil {
			return nil, err
		}
	}

	product := &models.Product{
		StoreID:     storeID,
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		Barcode:     input.Barcode,
		PriceCents:  input.PriceCents,
		CostCents:   input.CostCents,
		Quantity:    input.Quantity,
		MinQuantity: input.MinQuantity,
		Unit:        input.Unit,
		IsActive:    true,
		Version:     1,
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, writeError(err, "create product")
	}
	return FromModel(created), nil
}

func (s *service) Get(ctx context.Context, id *access.Identity, productID types.ProductID) (*ProductDTO, error) {
	if id == nil {
		return nil, nil
	}
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(product), nil
}

func (s *service) ListByStore(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]ProductDTO, error) {
	if id == nil {
		return []ProductDTO{}, nil
	}
	rows, err := s.repo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return fromModels(rows), nil
}

func (s *service) ListByCategory(ctx context.Context, id *access.Identity, categoryID types.CategoryID) ([]ProductDTO, error) {
	if id == nil {
		return []ProductDTO{}, nil
	}
	rows, err := s.repo.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products by category")
	}
	return fromModels(rows), nil
}

func (s *service) FindBySKU(ctx context.Context, id *access.Identity, storeID types.StoreID, sku string) (*ProductDTO, error) {
	sku = strings.TrimSpace(sku)
	if id == nil || sku == "" {
		return nil, nil
	}
	product, err := s.repo.FindBySKU(ctx, storeID, sku)
	return lookupResult(product, err, "find product by sku")
}

func (s *service) FindByBarcode(ctx context.Context, id *access.Identity, barcode string, storeID *types.StoreID) (*ProductDTO, error) {
	barcode = strings.TrimSpace(barcode)
	if id == nil || barcode == "" {
		return nil, nil
	}
	product, err := s.repo.FindByBarcode(ctx, barcode, storeID)
	return lookupResult(product, err, "find product by barcode")
}

func (s *service) LowStock(ctx context.Context, id *access.Identity, storeID types.StoreID) ([]ProductDTO, error) {
	if id == nil {
		return []ProductDTO{}, nil
	}
	rows, err := s.repo.LowStock(ctx, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}
	return fromModels(rows), nil
}

func (s *service) Update(ctx context.Context, id *access.Identity, productID types.ProductID, input UpdateProductInput) (*ProductDTO, error) {
	if err := s.policy.Authorize(id, access.ActionProductWrite); err != nil {
		return nil, err
	}
	if input.Quantity != nil {
		if err := s.policy.Authorize(id, access.ActionProductQuantity); err != nil {
			return nil, err
		}
	}

	current, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, mapLoadError(err)
	}

	expected := current.Version
	if input.ExpectedVersion != nil {
		if *input.ExpectedVersion != current.Version {
			return nil, versionConflict(*input.ExpectedVersion, current.Version)
		}
		expected = *input.ExpectedVersion
	}

	if input.CategoryID.Valid && input.CategoryID.Value != nil {
		if err := s.ensureCategory(ctx, current.StoreID, *input.CategoryID.Value); err != nil {
			return nil, err
		}
	}

	updates, err := buildUpdates(input)
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return FromModel(current), nil
	}

	if err := s.repo.UpdateWithVersion(ctx, productID, expected, updates); err != nil {
		if errors.Is(err, ErrVersionMismatch) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product was modified concurrently")
		}
		return nil, writeError(err, "update product")
	}
	return s.reload(ctx, productID)
}

func (s *service) UpdateQuantity(ctx context.Context, id *access.Identity, productID types.ProductID, quantity int) (*ProductDTO, error) {
	if err := s.policy.Authorize(id, access.ActionProductQuantity); err != nil {
		return nil, err
	}
	if err := s.repo.SetQuantity(ctx, productID, quantity); err != nil {
		return nil, mapLoadError(err)
	}
	return s.reload(ctx, productID)
}

func (s *service) Delete(ctx context.Context, id *access.Identity, productID types.ProductID) error {
	if err := s.policy.Authorize(id, access.ActionProductWrite); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, productID); err != nil {
		return mapLoadError(err)
	}
	return nil
}

func (s *service) reload(ctx context.Context, productID types.ProductID) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, mapLoadError(err)
	}
	return FromModel(product), nil
}

func (s *service) ensureCategory(ctx context.Context, storeID types.StoreID, categoryID types.CategoryID) error {
	ok, err := s.repo.CategoryInStore(ctx, storeID, categoryID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "category does not belong to store").
			WithDetails(map[string]any{"category_id": categoryID.String()})
	}
	return nil
}

func validateCreate(input *CreateProductInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.SKU = strings.TrimSpace(input.SKU)
	input.Description = trimmedOrNil(input.Description)
	input.Barcode = trimmedOrNil(input.Barcode)
	input.Unit = trimmedOrNil(input.Unit)

	switch {
	case input.Name == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	case input.SKU == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	case input.PriceCents < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
	case input.CostCents != nil && *input.CostCents < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "cost_cents must not be negative")
	case input.Quantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must not be negative")
	case input.MinQuantity < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "min_quantity must not be negative")
	}
	return nil
}

func buildUpdates(input UpdateProductInput) (map[string]any, error) {
	updates := map[string]any{}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name must not be empty")
		}
		updates["name"] = name
	}
	if input.SKU != nil {
		sku := strings.TrimSpace(*input.SKU)
		if sku == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku must not be empty")
		}
		updates["sku"] = sku
	}
	if input.PriceCents != nil {
		if *input.PriceCents < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must not be negative")
		}
		updates["price_cents"] = *input.PriceCents
	}
	if input.MinQuantity != nil {
		if *input.MinQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_quantity must not be negative")
		}
		updates["min_quantity"] = *input.MinQuantity
	}
	if input.Quantity != nil {
		updates["quantity"] = *input.Quantity
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if input.CostCents.Valid {
		if input.CostCents.Value == nil {
			updates["cost_cents"] = nil
		} else if *input.CostCents.Value < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cost_cents must not be negative")
		} else {
			updates["cost_cents"] = *input.CostCents.Value
		}
	}
	if input.CategoryID.Valid {
		if input.CategoryID.Value == nil {
			updates["category_id"] = nil
		} else {
			updates["category_id"] = *input.CategoryID.Value
		}
	}
	setNullableString(updates, "description", input.Description)
	setNullableString(updates, "barcode", input.Barcode)
	setNullableString(updates, "unit", input.Unit)
	return updates, nil
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

func versionConflict(expected, actual int) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "product version mismatch").
		WithDetails(map[string]any{"expected_version": expected, "current_version": actual})
}

func lookupResult(product *models.Product, err error, op string) (*ProductDTO, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
	}
	return FromModel(product), nil
}

func mapLoadError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
}

// writeError maps CHECK constraint rejections to validation errors.
func writeError(err error, op string) error {
	if constraint, ok := pkgerrors.CheckViolation(err); ok {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "product violates a column constraint").
			WithDetails(map[string]any{"constraint": constraint})
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, op)
}
