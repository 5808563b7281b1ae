package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/inkandthread/printshop-backend/api/controllers"
	"github.com/inkandthread/printshop-backend/api/middleware"
	"github.com/inkandthread/printshop-backend/internal/catalog"
	checkoutsvc "github.com/inkandthread/printshop-backend/internal/checkout"
	"github.com/inkandthread/printshop-backend/internal/discounts"
	"github.com/inkandthread/printshop-backend/internal/orders"
	"github.com/inkandthread/printshop-backend/internal/pricing"
	"github.com/inkandthread/printshop-backend/pkg/config"
	"github.com/inkandthread/printshop-backend/pkg/db"
	"github.com/inkandthread/printshop-backend/pkg/logger"
	"github.com/inkandthread/printshop-backend/pkg/redis"
	"github.com/inkandthread/printshop-backend/pkg/square"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	squareClient *square.Client,
	tokenVerifier middleware.TokenVerifier,
	catalogService catalog.Service,
	pricingService pricing.Service,
	discountService discounts.Service,
	ordersService orders.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	publicPolicy := middleware.NewRateLimitPolicy(
		"public",
		cfg.RateLimit.PublicWindow,
		cfg.RateLimit.PublicLimit,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimit(publicPolicy, redisClient, logg))
		r.Get("/garments", controllers.GarmentList(catalogService, logg))
		r.Post("/quote", controllers.Quote(pricingService, logg))
		r.Post("/campaigns/calculate-price", controllers.CampaignCalculatePrice(pricingService, logg))
		r.Post("/discount-codes/validate", controllers.DiscountValidate(discountService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Idempotency(redisClient, logg))
			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
			r.Post("/checkout/confirm", controllers.CheckoutConfirm(checkoutService, logg))
		})
	})

	// Webhooks carry their own signature check and sit outside the public
	// rate limit so Square deliveries are never throttled.
	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/square", controllers.SquareWebhook(checkoutService, squareClient, cfg.Square, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.AdminAuth(tokenVerifier, logg))
		r.Use(middleware.Idempotency(redisClient, logg))

		r.Route("/garments", func(r chi.Router) {
			r.Get("/", controllers.AdminGarmentList(catalogService, logg))
			r.Post("/", controllers.AdminGarmentCreate(catalogService, logg))
			r.Put("/{garmentId}", controllers.AdminGarmentUpdate(catalogService, logg))
			r.Delete("/{garmentId}", controllers.AdminGarmentDelete(catalogService, logg))
		})

		r.Route("/pricing-tiers", func(r chi.Router) {
			r.Get("/", controllers.AdminTierList(catalogService, logg))
			r.Post("/", controllers.AdminTierCreate(catalogService, logg))
			r.Put("/{tierId}", controllers.AdminTierUpdate(catalogService, logg))
			r.Delete("/{tierId}", controllers.AdminTierDelete(catalogService, logg))
		})

		r.Route("/print-pricing", func(r chi.Router) {
			r.Get("/", controllers.AdminPrintPricingList(catalogService, logg))
			r.Put("/", controllers.AdminPrintPricingUpsert(catalogService, logg))
			r.Delete("/{printPricingId}", controllers.AdminPrintPricingDelete(catalogService, logg))
		})

		r.Route("/discount-codes", func(r chi.Router) {
			r.Get("/", controllers.AdminDiscountCodeList(discountService, logg))
			r.Post("/", controllers.AdminDiscountCodeCreate(discountService, logg))
			r.Put("/{discountCodeId}", controllers.AdminDiscountCodeUpdate(discountService, logg))
			r.Delete("/{discountCodeId}", controllers.AdminDiscountCodeDelete(discountService, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(ordersService, logg))
			r.Get("/{orderId}", controllers.AdminOrderDetail(ordersService, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
		})

		r.Put("/settings/deposit-percent", controllers.AdminSetDepositPercent(catalogService, logg))
	})

	return r
}
