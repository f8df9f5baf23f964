package controllers

import (
	"net/http"

	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/api/responses"
	"github.com/angelmondragon/pos-backend/api/validators"
	"github.com/angelmondragon/pos-backend/internal/barcodes"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/pagination"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type scanRequest struct {
	Barcode string `json:"barcode" validate:"required,max=64"`
}

// BarcodeScan resolves a scanned code within the store and logs the attempt.
// A miss is not an error: data is null.
func BarcodeScan(svc barcodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "barcode")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload scanRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Scan(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, validators.SanitizeCode(payload.Barcode, 64))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func BarcodeListScans(svc barcodes.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "barcode")
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
		scans, err := svc.ListScans(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, scans)
	}
}
