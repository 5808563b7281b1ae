package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/inkandthread/printshop-backend/api/middleware"
	"github.com/inkandthread/printshop-backend/api/routes"
	"github.com/inkandthread/printshop-backend/internal/catalog"
	checkoutsvc "github.com/inkandthread/printshop-backend/internal/checkout"
	"github.com/inkandthread/printshop-backend/internal/discounts"
	"github.com/inkandthread/printshop-backend/internal/orders"
	"github.com/inkandthread/printshop-backend/internal/pricing"
	"github.com/inkandthread/printshop-backend/pkg/auth"
	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db"
	"github.com/inkandthread/printshop-backend/pkg/env"
	"github.com/inkandthread/printshop-backend/pkg/logger"
	"github.com/inkandthread/printshop-backend/pkg/metrics"
	"github.com/inkandthread/printshop-backend/pkg/migrate"
	"github.com/inkandthread/printshop-backend/pkg/redis"
	"github.com/inkandthread/printshop-backend/pkg/square"
)

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

	squareClient, err := square.NewClient(context.Background(), cfg.Square, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap square", err)
		os.Exit(1)
	}

	var tokenVerifier middleware.TokenVerifier
	if cfg.Auth.AdminToken != "" {
		verifier, err := auth.NewStaticTokenVerifier(cfg.Auth.AdminToken)
		if err != nil {
			logg.Error(context.Background(), "failed to create token verifier", err)
			os.Exit(1)
		}
		tokenVerifier = verifier
	} else {
		logg.Warn(context.Background(), "admin token not configured, admin routes disabled")
	}

	quoteMetrics := metrics.NewQuoteMetrics(prometheus.DefaultRegisterer)

	catalogService, err := catalog.NewService(
		catalog.NewGarmentRepository(dbClient.DB()),
		catalog.NewTierRepository(dbClient.DB()),
		catalog.NewPrintPricingRepository(dbClient.DB()),
		catalog.NewAppConfigRepository(dbClient.DB()),
		dbClient,
		cfg.Pricing,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	garmentCache := catalog.NewGarmentCache(catalogService, cfg.Inventory.CacheTTL, nil)

	pricingService, err := pricing.NewService(garmentCache, catalogService, cfg.Pricing, quoteMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing service", err)
		os.Exit(1)
	}

	discountService, err := discounts.NewService(discounts.NewRepository(dbClient.DB()), nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount service", err)
		os.Exit(1)
	}

	pendingRepo := orders.NewPendingOrderRepository(dbClient.DB())
	ordersService, err := orders.NewService(pendingRepo, orders.NewOrderRepository(dbClient.DB()), dbClient, nil)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(
		pricingService,
		discountService,
		catalogService,
		ordersService,
		pendingRepo,
		squareClient,
		cfg.Pricing,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	addr := ":" + env.Get("PORT", cfg.App.Port)
	id := env.Get("DYNO", "local")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			squareClient,
			tokenVerifier,
			catalogService,
			pricingService,
			discountService,
			ordersService,
			checkoutService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
