package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/pos-backend/api/controllers"
	"github.com/angelmondragon/pos-backend/api/middleware"
	"github.com/angelmondragon/pos-backend/internal/barcodes"
	"github.com/angelmondragon/pos-backend/internal/categories"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/internal/reports"
	"github.com/angelmondragon/pos-backend/internal/sales"
	"github.com/angelmondragon/pos-backend/internal/stores"
	"github.com/angelmondragon/pos-backend/internal/users"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/metrics"
	pkgredis "github.com/angelmondragon/pos-backend/pkg/redis"
)

// Params carries everything the HTTP surface depends on. Nil services answer
// with INTERNAL_ERROR; nil infrastructure (redis, metrics) is skipped.
type Params struct {
	Config *config.Config
	Logger *logger.Logger

	DB          controllers.Pinger
	Redis       controllers.Pinger
	Idempotency pkgredis.IdempotencyStore

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Stores     stores.Service
	Categories categories.Service
	Products   products.Service
	Sales      sales.Service
	Reports    reports.Service
	Barcodes   barcodes.Service
	Users      users.Service
}

func NewRouter(p Params) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)
	if p.HTTPMetrics != nil {
		r.Use(middleware.Metrics(p.HTTPMetrics))
	}

	ready := map[string]controllers.Pinger{"database": p.DB}
	if p.Redis != nil {
		ready["redis"] = p.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, ready))
	})
	if p.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(p.Gatherer))
	}

	idempotent := func(next http.Handler) http.Handler { return next }
	if p.Idempotency != nil {
		idempotent = middleware.Idempotency(p.Idempotency, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Identity(cfg.JWT, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Post("/", controllers.StoreCreate(p.Stores, logg))
			r.Get("/", controllers.StoreList(p.Stores, logg))
			r.Get("/owner/{ownerId}", controllers.StoreListByOwner(p.Stores, logg))

			r.Route("/{storeId}", func(r chi.Router) {
				r.Get("/", controllers.StoreGet(p.Stores, logg))
				r.Patch("/", controllers.StoreUpdate(p.Stores, logg))
				r.Delete("/", controllers.StoreDelete(p.Stores, logg))

				r.Post("/categories", controllers.CategoryCreate(p.Categories, logg))
				r.Get("/categories", controllers.CategoryListByStore(p.Categories, logg))

				r.Route("/products", func(r chi.Router) {
					r.Post("/", controllers.ProductCreate(p.Products, logg))
					r.Get("/", controllers.ProductListByStore(p.Products, logg))
					r.Get("/low-stock", controllers.ProductLowStock(p.Products, logg))
					r.Get("/sku/{sku}", controllers.ProductFindBySKU(p.Products, logg))
				})

				r.Route("/sales", func(r chi.Router) {
					r.With(idempotent).Post("/", controllers.SaleCreate(p.Sales, logg))
					r.Get("/", controllers.SaleListByStore(p.Sales, logg))
					r.Post("/quote", controllers.SaleQuote(p.Sales, logg))
					r.Get("/range", controllers.SaleListByDateRange(p.Sales, logg))
				})

				r.Get("/reports/stats", controllers.ReportStats(p.Reports, cfg.POS, logg))
				r.Get("/reports/daily", controllers.ReportDaily(p.Reports, cfg.POS, logg))

				r.Post("/barcodes/scan", controllers.BarcodeScan(p.Barcodes, logg))
				r.Get("/barcodes/scans", controllers.BarcodeListScans(p.Barcodes, logg))

				r.Get("/users", controllers.UserListByStore(p.Users, logg))
			})
		})

		r.Route("/categories/{categoryId}", func(r chi.Router) {
			r.Get("/", controllers.CategoryGet(p.Categories, logg))
			r.Patch("/", controllers.CategoryUpdate(p.Categories, logg))
			r.Delete("/", controllers.CategoryDelete(p.Categories, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/barcode/{barcode}", controllers.ProductFindByBarcode(p.Products, logg))
			r.Get("/{productId}", controllers.ProductGet(p.Products, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(p.Products, logg))
			r.Delete("/{productId}", controllers.ProductDelete(p.Products, logg))
			r.Put("/{productId}/quantity", controllers.ProductUpdateQuantity(p.Products, logg))
		})

		r.Route("/sales/{saleId}", func(r chi.Router) {
			r.Get("/", controllers.SaleGet(p.Sales, logg))
			r.With(idempotent).Post("/refund", controllers.SaleRefund(p.Sales, logg))
		})

		r.Get("/cashiers/{accountId}/sales", controllers.SaleListByCashier(p.Sales, logg))

		r.Route("/users", func(r chi.Router) {
			r.Post("/", controllers.UserCreate(p.Users, logg))
			r.Get("/", controllers.UserList(p.Users, logg))
			r.Get("/me", controllers.UserMe(p.Users, logg))
			r.Get("/account/{accountId}", controllers.UserGetByAccount(p.Users, logg))
			r.Patch("/{userId}", controllers.UserUpdate(p.Users, logg))
			r.Delete("/{userId}", controllers.UserDelete(p.Users, logg))
		})
	})

	return r
}
