package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/sandunudayakantha/TransitEquity/internal/api/http"
	"github.com/sandunudayakantha/TransitEquity/internal/api/http/handlers"
	"github.com/sandunudayakantha/TransitEquity/internal/auth"
	"github.com/sandunudayakantha/TransitEquity/internal/config"
	"github.com/sandunudayakantha/TransitEquity/internal/events"
	"github.com/sandunudayakantha/TransitEquity/internal/observability"
	"github.com/sandunudayakantha/TransitEquity/internal/persistence"
	"github.com/sandunudayakantha/TransitEquity/internal/repository"
	"github.com/sandunudayakantha/TransitEquity/internal/service"
	"github.com/sandunudayakantha/TransitEquity/internal/worker"
)

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

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	userRepo := repository.NewUserRepository(pg.PoolHandle())
	cachedRepo := repository.NewCachedUserRepository(userRepo, redis.Client, cfg.Redis.UserCacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(*cfg, cachedRepo, dispatcher)
	userService := service.NewUserService(cachedRepo, dispatcher)
	authMiddleware := auth.NewMiddleware(authService.TokenManager(), cachedRepo)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.IsProduction())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService, cfg.App.IsProduction())
	usersHandler := handlers.NewUsersHandler(userService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         healthHandler,
		Auth:           authHandler,
		Users:          usersHandler,
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
