package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/angelmondragon/pos-backend/api/routes"
	"github.com/angelmondragon/pos-backend/internal/access"
	"github.com/angelmondragon/pos-backend/internal/barcodes"
	"github.com/angelmondragon/pos-backend/internal/categories"
	"github.com/angelmondragon/pos-backend/internal/products"
	"github.com/angelmondragon/pos-backend/internal/reports"
	"github.com/angelmondragon/pos-backend/internal/sales"
	"github.com/angelmondragon/pos-backend/internal/stores"
	"github.com/angelmondragon/pos-backend/internal/users"
	"github.com/angelmondragon/pos-backend/pkg/config"
	"github.com/angelmondragon/pos-backend/pkg/db"
	"github.com/angelmondragon/pos-backend/pkg/logger"
	"github.com/angelmondragon/pos-backend/pkg/metrics"
	"github.com/angelmondragon/pos-backend/pkg/migrate"
	"github.com/angelmondragon/pos-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	params := routes.Params{Config: cfg, Logger: logg, DB: dbClient}

	if cfg.Redis.Enabled() {
		redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
		params.Redis = redisClient
		params.Idempotency = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured; idempotency keys are not enforced")
	}

	policy, err := access.NewPolicy(cfg.Access.Policy)
	if err != nil {
		logg.Error(context.Background(), "failed to parse access policy", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	params.HTTPMetrics = metrics.NewHTTPMetrics(registry, "api")
	params.Gatherer = registry
	saleMetrics := metrics.NewSaleMetrics(registry)

	gdb := dbClient.DB()
	storeRepo := stores.NewRepository(gdb)
	productRepo := products.NewRepository(gdb)

	if params.Stores, err = stores.NewService(storeRepo, policy, cfg.POS); err != nil {
		fatal(logg, "store service", err)
	}
	if params.Categories, err = categories.NewService(categories.NewRepository(gdb), policy); err != nil {
		fatal(logg, "category service", err)
	}
	if params.Products, err = products.NewService(productRepo, policy); err != nil {
		fatal(logg, "product service", err)
	}
	if params.Sales, err = sales.NewService(dbClient, sales.NewRepository(gdb), productRepo, policy, cfg.POS, logg, saleMetrics); err != nil {
		fatal(logg, "sale service", err)
	}
	if params.Reports, err = reports.NewService(reports.NewRepository(gdb)); err != nil {
		fatal(logg, "report service", err)
	}
	if params.Barcodes, err = barcodes.NewService(barcodes.NewRepository(gdb), productRepo, logg); err != nil {
		fatal(logg, "barcode service", err)
	}
	if params.Users, err = users.NewService(users.NewRepository(gdb), policy); err != nil {
		fatal(logg, "user service", err)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"policy_rules": policy.Rules(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(params),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "api server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}
}

func fatal(logg *logger.Logger, what string, err error) {
	logg.Error(context.Background(), "failed to create "+what, err)
	os.Exit(1)
}
