package controllers

import (
	"net/http"

	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/api/responses"
	"github.com/angelmondragon/pos-backend/api/validators"
	"github.com/angelmondragon/pos-backend/internal/reports"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/types"
)

func reportWindow(r *http.Request, cfg config.POSConfig) (types.StoreID, int, error) {
	storeID, err := validators.ParsePathID[types.StoreID](r, "storeId")
	if err != nil {
		return types.StoreID{}, 0, err
	}
	maxDays := cfg.ReportMaxDays
	if maxDays <= 0 {
		maxDays = 3650
	}
	defaultDays := cfg.ReportDefaultDays
	if defaultDays <= 0 || defaultDays > maxDays {
		defaultDays = 30
	}
	days, err := validators.ParseQueryInt(r, "days", defaultDays, 1, maxDays)
	if err != nil {
		return types.StoreID{}, 0, err
	}
	return storeID, days, nil
}

func ReportStats(svc reports.Service, cfg config.POSConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "report")
			return
		}
		storeID, days, err := reportWindow(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		stats, err := svc.GetStats(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}

func ReportDaily(svc reports.Service, cfg config.POSConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			serviceUnavailable(w, r, logg, "report")
			return
		}
		storeID, days, err := reportWindow(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		daily, err := svc.GetDailyBreakdown(r.Context(), middleware.IdentityFromContext(r.Context()), storeID, days)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, daily)
	}
}
