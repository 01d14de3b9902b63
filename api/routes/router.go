package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/emberforge/shopledger-backend/api/controllers"
	"github.com/emberforge/shopledger-backend/api/middleware"
	"github.com/emberforge/shopledger-backend/internal/account"
	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/internal/economy"
	"github.com/emberforge/shopledger-backend/internal/messages"
	"github.com/emberforge/shopledger-backend/internal/shops"
	"github.com/emberforge/shopledger-backend/pkg/config"
	"github.com/emberforge/shopledger-backend/pkg/db"
	"github.com/emberforge/shopledger-backend/pkg/logger"
	"github.com/emberforge/shopledger-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	registry *prometheus.Registry,
	resolver account.Resolver,
	engine *economy.Engine,
	backend economy.Backend,
	auditRepo audit.Repository,
	shopService shops.Service,
	messageService messages.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	var redisP redis.Pinger
	if redisClient != nil {
		redisP = redisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		if redisClient != nil {
			r.Use(middleware.Idempotency(redisClient, logg))
		}

		r.Route("/v1", func(r chi.Router) {
			r.Post("/transfers", controllers.CreateTransfer(resolver, engine, logg))
			r.Post("/purchases", controllers.CreatePurchase(resolver, engine, shopService, cfg.Economy.DefaultCurrency, logg))
			r.Get("/accounts/{accountId}/balance", controllers.AccountBalance(backend, logg))
			r.Get("/accounts/{accountId}/transactions", controllers.AccountTransactions(auditRepo, logg))

			r.Route("/shops", func(r chi.Router) {
				r.Post("/", controllers.CreateShop(shopService, logg))
				r.Get("/at", controllers.GetShopAt(shopService, logg))
				r.Get("/{shopId}", controllers.GetShop(shopService, logg))
				r.Patch("/{shopId}/price", controllers.UpdateShopPrice(shopService, logg))
				r.Patch("/{shopId}/name", controllers.RenameShop(shopService, logg))
				r.Patch("/{shopId}/owner", controllers.TransferShopOwnership(shopService, logg))
				r.Patch("/{shopId}/type", controllers.ChangeShopType(shopService, logg))
				r.Delete("/{shopId}", controllers.DeleteShop(shopService, logg))
			})

			r.Route("/messages", func(r chi.Router) {
				r.Post("/", controllers.SaveMessage(messageService, logg))
				r.Get("/{receiverId}", controllers.PullMessages(messageService, logg))
			})
		})
	})

	return r
}
