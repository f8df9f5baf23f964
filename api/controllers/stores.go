package controllers

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/api/responses"
	"github.com/angelmondragon/pos-backend/api/validators"
	"github.com/angelmondragon/pos-backend/internal/stores"
	"github.com/angelmondragon/pos-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/pos-backend/pkg/errors"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

type createStoreRequest struct {
	Name             string           `json:"name" validate:"required,max=200"`
	OwnerID          *types.AccountID `json:"owner_id,omitempty"`
	Email            string           `json:"email" validate:"required,email"`
	Phone            *string          `json:"phone,omitempty"`
	Address          *string          `json:"address,omitempty"`
	SubscriptionTier *string          `json:"subscription_tier,omitempty"`
	TaxRate          *decimal.Decimal `json:"tax_rate,omitempty"`
}

func (req createStoreRequest) toInput() (stores.CreateStoreInput, error) {
	input := stores.CreateStoreInput{
		Name:    validators.SanitizeString(req.Name, 200),
		OwnerID: req.OwnerID,
		Email:   validators.SanitizeString(req.Email, 320),
		Phone:   req.Phone,
		Address: req.Address,
		TaxRate: req.TaxRate,
	}
	if req.SubscriptionTier != nil {
		tier, err := enums.ParseSubscriptionTier(*req.SubscriptionTier)
		if err != nil {
			return stores.CreateStoreInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription_tier")
		}
		input.SubscriptionTier = tier
	}
	return input, nil
}

type updateStoreRequest struct {
	Name                  *string                         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Email                 *string                         `json:"email,omitempty" validate:"omitempty,email"`
	Phone                 types.Nullable[string]          `json:"phone"`
	Address               types.Nullable[string]          `json:"address"`
	SubscriptionTier      *string                         `json:"subscription_tier,omitempty"`
	SubscriptionStatus    *string                         `json:"subscription_status,omitempty"`
	SubscriptionExpiresAt *time.Time                      `json:"subscription_expires_at,omitempty"`
	TaxRate               types.Nullable[decimal.Decimal] `json:"tax_rate"`
}

func (req updateStoreRequest) toInput() (stores.UpdateStoreInput, error) {
	input := stores.UpdateStoreInput{
		Name:                  req.Name,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		SubscriptionExpiresAt: req.SubscriptionExpiresAt,
		TaxRate:               req.TaxRate,
	}
	if req.SubscriptionTier != nil {
		tier, err := enums.ParseSubscriptionTier(*req.SubscriptionTier)
		if err != nil {
			return stores.UpdateStoreInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription_tier")
		}
		input.SubscriptionTier = &tier
	}
	if req.SubscriptionStatus != nil {
		status, err := enums.ParseSubscriptionStatus(*req.SubscriptionStatus)
		if err != nil {
			return stores.UpdateStoreInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid subscription_status")
		}
		input.SubscriptionStatus = &status
	}
	return input, nil
}

func StoreCreate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "store")
			return
		}
		var payload createStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.Create(r.Context(), middleware.IdentityFromContext(r.Context()), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteCreated(w, store)
	}
}

func StoreList(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "store")
			return
		}
		list, err := svc.List(r.Context(), middleware.IdentityFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StoreGet(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "store")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.GetByID(r.Context(), middleware.IdentityFromContext(r.Context()), storeID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

func StoreListByOwner(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "store")
			return
		}
		ownerID, err := validators.ParsePathID[types.AccountID](r, "ownerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.GetByOwner(r.Context(), middleware.IdentityFromContext(r.Context()), ownerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func StoreUpdate(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "store")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateStoreRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		store, err := svc.Update(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, store)
	}
}

func StoreDelete(svc stores.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "store")
			return
		}
		storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), middleware.IdentityFromContext(r.Context()), storeID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
