package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/afriart/gallery-service/internal/api/http"
	"github.com/afriart/gallery-service/internal/api/http/handlers"
	"github.com/afriart/gallery-service/internal/auth"
	"github.com/afriart/gallery-service/internal/config"
	"github.com/afriart/gallery-service/internal/events"
	"github.com/afriart/gallery-service/internal/notification"
	"github.com/afriart/gallery-service/internal/observability"
	"github.com/afriart/gallery-service/internal/persistence"
	"github.com/afriart/gallery-service/internal/repository"
	"github.com/afriart/gallery-service/internal/service"
	"github.com/afriart/gallery-service/internal/twofactor"
	"github.com/afriart/gallery-service/internal/worker"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var sender notification.Sender
	smtpSender, err := notification.NewSMTPSender(cfg.SMTP)
	switch {
	case err == nil:
		sender = smtpSender
	case errors.Is(err, notification.ErrNotConfigured):
		logger.Warn("smtp not configured; one-time code dispatch will fail")
		sender = notification.Disabled{}
	default:
		logger.Fatal("failed to init mail sender", zap.Error(err))
	}

	var codeStore twofactor.CodeStore
	if cfg.Auth.TwoFactorStore == "redis" {
		codeStore = twofactor.NewRedisStore(redis.Client, sender)
	} else {
		codeStore = twofactor.NewMemoryStore(sender)
	}

	dispatcher := events.NewInMemoryDispatcher()
	principalRepo := repository.NewPrincipalRepository(pg.PoolHandle())

	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		PrincipalRepo: principalRepo,
		CodeStore:     codeStore,
		Dispatcher:    dispatcher,
	})
	if err := authService.TokenManager().Ready(); err != nil {
		logger.Warn("JWT_SECRET_KEY not set; token issuance and verification will fail", zap.Error(err))
	}
	gate := auth.NewGate(authService.TokenManager())

	worker.StartAudit(service.NewAuditService(dispatcher, logger))
	worker.StartCodeSweeper(ctx, codeStore, cfg.Auth.SweepInterval(), logger)

	metrics := observability.NewMetrics()
	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	authHandler := handlers.NewAuthHandler(authService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: healthHandler,
		Auth:   authHandler,
		Gate:   gate,
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
