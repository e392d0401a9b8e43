package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/uav-store/backend/internal/api/http"
	"github.com/uav-store/backend/internal/api/http/handlers"
	"github.com/uav-store/backend/internal/auth"
	"github.com/uav-store/backend/internal/config"
	"github.com/uav-store/backend/internal/events"
	"github.com/uav-store/backend/internal/observability"
	"github.com/uav-store/backend/internal/persistence"
	"github.com/uav-store/backend/internal/repository"
	"github.com/uav-store/backend/internal/service"
	"github.com/uav-store/backend/internal/worker"
)

const shutdownTimeout = 10 * time.Second

//	@title			UAV Store API
//	@version		1.0
//	@description	Catalogue, ordering and account API for the UAV store.
//	@BasePath		/
//	@schemes		http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	notifications := worker.NewNotificationWorker(service.NewNotificationService(logger, cfg.Notification), logger, cfg.Notification.QueueSize)
	notifications.Subscribe(dispatcher)
	workerCtx, stopWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		notifications.Run(workerCtx)
		close(workerDone)
	}()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	reviewRepo := repository.NewReviewRepository(pool)
	billRepo := repository.NewBillRepository(pool)
	productCache := repository.NewProductCache(redis.Client, cfg.Redis.FeaturedCacheTTL())

	authService := service.NewAuthService(cfg.Auth, accountRepo)
	customerService := service.NewCustomerService(accountRepo, authService)
	productService := service.NewProductService(productRepo, productCache, logger)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	billService := service.NewBillService(service.BillDependencies{
		BillRepo:    billRepo,
		ProductRepo: productRepo,
		Dispatcher:  dispatcher,
		Logger:      logger,
	})

	gateOpts := auth.GateOptions{
		CookieName:           cfg.Auth.CookieName,
		SoftModeHonorsHeader: cfg.Auth.SoftModeHonorsHeader,
	}
	if cfg.Auth.RevokeOnLogout {
		if !redis.Enabled() {
			logger.Fatal("AUTH_REVOKE_ON_LOGOUT requires REDIS_ADDR")
		}
		gateOpts.Revocations = repository.NewRevocationRepository(redis.Client)
		logger.Info("logout revocation enabled")
	}
	gate := auth.NewGate(authService.Tokens(), auth.NewResolver(accountRepo), gateOpts)
	cookies := auth.CookieSettings{Name: cfg.Auth.CookieName, TTL: cfg.Auth.CookieTTL()}

	app := fiber.New(httptransport.ServerConfig(cfg.App))
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareOptions{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Customers: handlers.NewCustomersHandler(authService, customerService, gate, cookies),
		Products:  handlers.NewProductsHandler(productService),
		Reviews:   handlers.NewReviewsHandler(reviewService),
		Bills:     handlers.NewBillsHandler(billService),
		Gate:      gate,
		RateLimit: cfg.RateLimit,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
	stopWorker()
	<-workerDone
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
