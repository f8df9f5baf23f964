package controllers

import (
	"net/http"

	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/api/responses"
	"github.com/angelmondragon/pos-backend/api/validators"
	"github.com/angelmondragon/pos-backend/internal/sales"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/pagination"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

const cashierSalesDefaultLimit = 50

type saleItemRequest struct {
	ProductID     types.ProductID `json:"product_id"`
	ProductName   string          `json:"product_name,omitempty"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
	PriceCents    *int64          `json:"price_cents,omitempty" validate:"omitempty,gte=0"`
	SubtotalCents *int64          `json:"subtotal_cents,omitempty" validate:"omitempty,gte=0"`
}

func (req saleItemRequest) toInput() sales.LineItemInput {
	return sales.LineItemInput{
		ProductID:     req.ProductID,
		ProductName:   req.ProductName,
		Quantity:      req.Quantity,
		PriceCents:    req.PriceCents,
		SubtotalCents: req.SubtotalCents,
	}
}

func itemInputs(items []saleItemRequest) []sales.LineItemInput {
	out := make([]sales.LineItemInput, 0, len(items))
	for _, item := range items {
		out = append(out, item.toInput())
	}
	return out
}

type quoteRequest struct {
	Items         []saleItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountCents int64             `json:"discount_cents" validate:"gte=0"`
}

type createSaleRequest struct {
	Items         []saleItemRequest `json:"items" validate:"required,min=1,dive"`
	DiscountCents int64             `json:"discount_cents" validate:"gte=0"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	SubtotalCents *int64            `json:"subtotal_cents,omitempty"`
	TaxCents      *int64            `json:"tax_cents,omitempty"`
	TotalCents    *int64            `json:"total_cents,omitempty"`
}

func (req createSaleRequest) toInput() (sales.CreateSaleInput, error) {
	method, err := enums.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		return sales.CreateSaleInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method")
	}
	return sales.CreateSaleInput{
		Items:         itemInputs(req.Items),
		DiscountCents: req.DiscountCents,
		PaymentMethod: method,
		ClientTotals: sales.ClientTotals{
			SubtotalCents: req.SubtotalCents,
			TaxCents:      req.TaxCents,
			TotalCents:    req.TotalCents,
		},
	}, nil
}

func SaleQuote(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload quoteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Quote(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, sales.QuoteInput{
			Items:         itemInputs(payload.Items),
			DiscountCents: payload.DiscountCents,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// SaleCreate records a completed sale and decrements stock.
func SaleCreate(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload createSaleRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Create(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, sale)
	}
}

func SaleListByStore(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.ListByStore(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func SaleListByDateRange(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		start, err := validators.ParseQueryTime(r, "start")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		end, err := validators.ParseQueryTime(r, "end")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.GetByDateRange(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, start, end)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func SaleGet(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		saleID, err := validators.ParsePathID[types.SaleID](r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Get(r.Context(), middleware.IdentityFromContext(r.Context()), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

// SaleRefund reverses a completed sale and restores its stock.
func SaleRefund(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		saleID, err := validators.ParsePathID[types.SaleID](r, "saleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sale, err := svc.Refund(r.Context(), middleware.IdentityFromContext(r.Context()), saleID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, sale)
	}
}

func SaleListByCashier(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "sale")
			return
		}
		cashierID, err := validators.ParsePathID[types.AccountID](r, "accountId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", cashierSalesDefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListByCashier(r.Context(), middleware.IdentityFromContext(r.Context()), cashierID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
