package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/emberforge/shopledger-backend/api/routes"
	"github.com/emberforge/shopledger-backend/internal/account"
	"github.com/emberforge/shopledger-backend/internal/audit"
	"github.com/emberforge/shopledger-backend/internal/economy"
	"github.com/emberforge/shopledger-backend/internal/messages"
	"github.com/emberforge/shopledger-backend/internal/schema"
	"github.com/emberforge/shopledger-backend/internal/shops"
	"github.com/emberforge/shopledger-backend/pkg/config"
	"github.com/emberforge/shopledger-backend/pkg/db"
	"github.com/emberforge/shopledger-backend/pkg/instance"
	"github.com/emberforge/shopledger-backend/pkg/logger"
	"github.com/emberforge/shopledger-backend/pkg/metrics"
	"github.com/emberforge/shopledger-backend/pkg/migrate"
	"github.com/emberforge/shopledger-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

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

	prefix := cfg.Schema.TablePrefix
	if err := schema.InitializeTables(context.Background(), dbClient, prefix, schemaDialect(cfg)); err != nil {
		logg.Error(context.Background(), "failed to initialize tables", err)
		os.Exit(1)
	}
	metaStore := schema.NewMetadataStore(dbClient.DB(), prefix)
	if err := metaStore.StampVersion(context.Background(), schema.CurrentVersion); err != nil {
		logg.Error(context.Background(), "failed to stamp schema version", err)
		os.Exit(1)
	}

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

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	resolver, err := account.NewResolver(account.ResolverParams{
		Players: account.NewDirectory(dbClient.DB(), prefix),
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create account resolver", err)
		os.Exit(1)
	}

	auditRepo := audit.NewRepository(dbClient.DB(), prefix)
	auditWriter, err := audit.NewWriter(audit.WriterParams{Repo: auditRepo})
	if err != nil {
		logg.Error(context.Background(), "failed to create audit writer", err)
		os.Exit(1)
	}

	taxAccount, err := taxAccountID(cfg)
	if err != nil {
		logg.Error(context.Background(), "invalid tax account", err)
		os.Exit(1)
	}

	backend := economy.NewMemoryBackend()
	engine, err := economy.NewEngine(economy.EngineParams{
		Backend:    backend,
		Audit:      auditWriter,
		Locker:     backend,
		Metrics:    metrics.NewTransferMetrics(registry),
		Log:        logg,
		TaxRate:    cfg.Economy.TaxRateDecimal(),
		TaxAccount: taxAccount,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create transaction engine", err)
		os.Exit(1)
	}

	shopService, err := shops.NewService(shops.ServiceParams{
		Repo:      shops.NewRepository(dbClient.DB(), prefix),
		AuditRepo: auditRepo,
		Tx:        dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create shop service", err)
		os.Exit(1)
	}

	messageService, err := messages.NewService(messages.ServiceParams{
		Repo: messages.NewRepository(dbClient.DB(), prefix),
		Tx:   dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create message service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			registry,
			resolver,
			engine,
			backend,
			auditRepo,
			shopService,
			messageService,
		),
	}

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
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
		}
		logg.Info(ctx, "api server shutting down gracefully")
	}
}

func schemaDialect(cfg *config.Config) schema.Dialect {
	if cfg.FeatureFlags.UseSQLite || cfg.DB.Driver == "sqlite" {
		return schema.DialectSQLite
	}
	return schema.DialectPostgres
}

func taxAccountID(cfg *config.Config) (*uuid.UUID, error) {
	if cfg.Economy.TaxAccount == "" {
		return nil, nil
	}
	id, err := uuid.Parse(cfg.Economy.TaxAccount)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
