package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/api/responses"
	"github.com/angelmondragon/pos-backend/api/validators"
	"github.com/angelmondragon/pos-backend/internal/products"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type createProductRequest struct {
	CategoryID  *types.CategoryID `json:"category_id,omitempty"`
	Name        string            `json:"name" validate:"required,max=200"`
	Description *string           `json:"description,omitempty"`
	SKU         string            `json:"sku" validate:"required,max=64"`
	Barcode     *string           `json:"barcode,omitempty" validate:"omitempty,max=64"`
	PriceCents  int64             `json:"price_cents" validate:"gte=0"`
	CostCents   *int64            `json:"cost_cents,omitempty" validate:"omitempty,gte=0"`
	Quantity    int               `json:"quantity" validate:"gte=0"`
	MinQuantity int               `json:"min_quantity" validate:"gte=0"`
	Unit        *string           `json:"unit,omitempty" validate:"omitempty,max=32"`
}

func (req createProductRequest) toInput() products.CreateProductInput {
	return products.CreateProductInput{
		CategoryID:  req.CategoryID,
		Name:        validators.SanitizeString(req.Name, 200),
		Description: req.Description,
		SKU:         validators.SanitizeString(req.SKU, 64),
		Barcode:     sanitizeBarcode(req.Barcode),
		PriceCents:  req.PriceCents,
		CostCents:   req.CostCents,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		Unit:        req.Unit,
	}
}

type updateProductRequest struct {
	CategoryID      types.Nullable[types.CategoryID] `json:"category_id"`
	Name            *string                          `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Description     types.Nullable[string]           `json:"description"`
	SKU             *string                          `json:"sku,omitempty" validate:"omitempty,min=1,max=64"`
	Barcode         types.Nullable[string]           `json:"barcode"`
	PriceCents      *int64                           `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	CostCents       types.Nullable[int64]            `json:"cost_cents"`
	Quantity        *int                             `json:"quantity,omitempty" validate:"omitempty,gte=0"`
	MinQuantity     *int                             `json:"min_quantity,omitempty" validate:"omitempty,gte=0"`
	Unit            types.Nullable[string]           `json:"unit"`
	IsActive        *bool                            `json:"is_active,omitempty"`
	ExpectedVersion *int                             `json:"version,omitempty" validate:"omitempty,gte=1"`
}

func (req updateProductRequest) toInput() products.UpdateProductInput {
	return products.UpdateProductInput{
		CategoryID:      req.CategoryID,
		Name:            req.Name,
		Description:     req.Description,
		SKU:             req.SKU,
		Barcode:         req.Barcode,
		PriceCents:      req.PriceCents,
		CostCents:       req.CostCents,
		Quantity:        req.Quantity,
		MinQuantity:     req.MinQuantity,
		Unit:            req.Unit,
		IsActive:        req.IsActive,
		ExpectedVersion: req.ExpectedVersion,
	}
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,gte=0"`
}

func ProductCreate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, product)
	}
}

// ProductListByStore lists a store's catalog, or one category of it when
// ?category_id= is present.
func ProductListByStore(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryID[types.CategoryID](r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		identity := middleware.IdentityFromContext(r.Context())
		var list []products.ProductDTO
		if categoryID != nil {
			list, err = svc.ListByCategory(r.Context(), identity, *categoryID)
		} else {
			list, err = svc.ListByStore(r.Context(), identity, storeID)
		}
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if categoryID != nil {
			list = filterStore(list, storeID)
		}
		responses.WriteSuccess(w, list)
	}
}

func filterStore(list []products.ProductDTO, storeID types.StoreID) []products.ProductDTO {
	out := make([]products.ProductDTO, 0, len(list))
	for _, p := range list {
		if p.StoreID == storeID {
			out = append(out, p)
		}
	}
	return out
}

func ProductLowStock(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.LowStock(r.Context(), middleware.IdentityFromContext(r.Context()), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func ProductFindBySKU(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sku := strings.TrimSpace(chi.URLParam(r, "sku"))
		if sku == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "sku is required"))
			return
		}
		product, err := svc.FindBySKU(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, sku)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductFindByBarcode(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		barcode := validators.SanitizeCode(chi.URLParam(r, "barcode"), 64)
		if barcode == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "barcode is required"))
			return
		}
		storeID, err := validators.ParseQueryID[types.StoreID](r, "store_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.FindByBarcode(r.Context(), middleware.IdentityFromContext(r.Context()), barcode, storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductGet(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		productID, err := validators.ParsePathID[types.ProductID](r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), middleware.IdentityFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductUpdate(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		productID, err := validators.ParsePathID[types.ProductID](r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), middleware.IdentityFromContext(r.Context()), productID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

// ProductUpdateQuantity sets the stock level outright (a physical count).
func ProductUpdateQuantity(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		productID, err := validators.ParsePathID[types.ProductID](r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.UpdateQuantity(r.Context(), middleware.IdentityFromContext(r.Context()), productID, *payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func ProductDelete(svc products.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "product")
			return
		}
		productID, err := validators.ParsePathID[types.ProductID](r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

func sanitizeBarcode(raw *string) *string {
	if raw == nil {
		return nil
	}
	code := validators.SanitizeCode(*raw, 64)
	if code == "" {
		return nil
	}
	return &code
}
