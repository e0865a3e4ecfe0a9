package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/provisionhq/procurehub-backend/api/routes"
	"github.com/provisionhq/procurehub-backend/internal/cart"
	"github.com/provisionhq/procurehub-backend/internal/catalog"
	"github.com/provisionhq/procurehub-backend/internal/inventory"
	"github.com/provisionhq/procurehub-backend/internal/notifications"
	"github.com/provisionhq/procurehub-backend/internal/requests"
	"github.com/provisionhq/procurehub-backend/internal/settlement"
	"github.com/provisionhq/procurehub-backend/internal/storeinv"
	"github.com/provisionhq/procurehub-backend/internal/stores"
	"github.com/provisionhq/procurehub-backend/internal/wallet"
	"github.com/provisionhq/procurehub-backend/pkg/config"
	"github.com/provisionhq/procurehub-backend/pkg/db"
	"github.com/provisionhq/procurehub-backend/pkg/logger"
	"github.com/provisionhq/procurehub-backend/pkg/metrics"
	"github.com/provisionhq/procurehub-backend/pkg/migrate"
	"github.com/provisionhq/procurehub-backend/pkg/outbox"
	"github.com/provisionhq/procurehub-backend/pkg/redis"
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

	settlementMetrics := metrics.NewSettlementMetrics(prometheus.DefaultRegisterer)

	storeService, err := stores.NewService(stores.NewRepository(dbClient.DB()), dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create store service", err)
		os.Exit(1)
	}
	catalogService, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}
	inventoryService, err := inventory.NewService(inventory.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create inventory service", err)
		os.Exit(1)
	}
	storeInvService, err := storeinv.NewService(storeinv.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create store inventory service", err)
		os.Exit(1)
	}
	walletService, err := wallet.NewService(wallet.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create wallet service", err)
		os.Exit(1)
	}
	cartService, err := cart.NewService(cart.NewRepository(dbClient.DB()), dbClient, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	requestRepo := requests.NewRepository(dbClient.DB())

	unitOfWork, err := settlement.NewUnitOfWork(cfg.Settlement, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement unit of work", err)
		os.Exit(1)
	}
	orchestrator, err := settlement.NewOrchestrator(
		unitOfWork,
		requestRepo,
		inventoryService,
		storeInvService,
		walletService,
		settlementMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create settlement orchestrator", err)
		os.Exit(1)
	}

	notifier, err := notifications.NewNotifier(outbox.NewService(outbox.NewRepository(dbClient.DB()), logg), dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifier", err)
		os.Exit(1)
	}

	requestService, err := requests.NewService(
		requestRepo,
		dbClient,
		storeService,
		catalogService,
		inventoryService,
		walletService,
		cartService,
		orchestrator,
		notifier,
		settlementMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create request service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, dbClient, redisClient, routes.Services{
			Stores:         storeService,
			Wallets:        walletService,
			StoreInventory: storeInvService,
			Catalog:        catalogService,
			Inventory:      inventoryService,
			Carts:          cartService,
			Requests:       requestService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
