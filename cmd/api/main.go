package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/dashboard-gateway/internal/access"
	httptransport "github.com/spec-kit/dashboard-gateway/internal/api/http"
	"github.com/spec-kit/dashboard-gateway/internal/api/http/handlers"
	"github.com/spec-kit/dashboard-gateway/internal/auth"
	"github.com/spec-kit/dashboard-gateway/internal/config"
	"github.com/spec-kit/dashboard-gateway/internal/events"
	"github.com/spec-kit/dashboard-gateway/internal/observability"
	"github.com/spec-kit/dashboard-gateway/internal/persistence"
	"github.com/spec-kit/dashboard-gateway/internal/repository"
	"github.com/spec-kit/dashboard-gateway/internal/service"
	"github.com/spec-kit/dashboard-gateway/internal/session"
	"github.com/spec-kit/dashboard-gateway/internal/worker"
	"github.com/spec-kit/dashboard-gateway/migrations"
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
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), migrations.FS, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	readiness := map[string]handlers.Pinger{}

	var accounts repository.AccountRepository
	if pg.Enabled() {
		accounts = repository.NewAccountRepository(pg.PoolHandle())
		readiness["postgres"] = pg
	} else {
		accounts = repository.NewMemoryAccountRepository()
	}

	var provider session.Provider
	switch cfg.Session.Backend {
	case "memory":
		provider = session.NewMemoryProvider(cfg.Session.TTL())
	default:
		redis := persistence.NewRedis(ctx, cfg.Redis, logger)
		defer redis.Close()
		provider = session.NewRedisProvider(redis.Client, cfg.Session.TTL())
		readiness["redis"] = redis
	}
	sessions := session.NewManager(provider, logger)

	authService := service.NewAuthService(cfg.Auth, accounts)
	if created, err := authService.EnsureAdmin(ctx, cfg.Auth.BootstrapAdminEmail, cfg.Auth.BootstrapAdminPassword); err != nil {
		logger.Fatal("failed to bootstrap admin account", zap.Error(err))
	} else if created {
		logger.Info("bootstrap admin account created")
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), accounts)

	var checker access.Checker
	if cfg.Auth.CheckURL != "" {
		checker = access.NewHTTPChecker(cfg.Auth.CheckURL, cfg.Auth.CheckTimeout())
		logger.Info("validating sessions against remote auth-check endpoint", zap.String("url", cfg.Auth.CheckURL))
	} else {
		checker = access.NewLocalChecker(authMiddleware)
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	var webhook *worker.WebhookForwarder
	var forwarder service.EventForwarder
	if cfg.Audit.WebhookURL != "" {
		webhook = worker.NewWebhookForwarder(cfg.Audit.WebhookURL, cfg.Audit.WebhookTimeout(), cfg.Audit.QueueSize, logger)
		forwarder = webhook
	}
	worker.StartAuditWorker(ctx, service.NewAuditService(dispatcher, logger, metrics, forwarder), webhook)

	controller := access.NewController(access.Options{
		LoginPath:    cfg.Access.LoginPath,
		PublicPaths:  cfg.Access.PublicPaths,
		Checker:      checker,
		CheckTimeout: cfg.Auth.CheckTimeout(),
		Events:       dispatcher,
		Recorder:     metrics,
		Logger:       logger,
	})

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:   handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Sessions: handlers.NewSessionHandler(authService, dispatcher, cfg.Access.LoginPath, cfg.Session.HydrateTimeout(), logger),
		Accounts: handlers.NewAccountsHandler(authService),
		Views:    handlers.NewViewsHandler(),
		SessionContext: session.Middleware(sessions, session.CookieConfig{
			Name:   cfg.Session.CookieName,
			MaxAge: cfg.Session.TTL(),
			Secure: cfg.App.Env == "production",
		}),
		Controller:     controller,
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
		HydrateTimeout: cfg.Session.HydrateTimeout(),
		Logger:         logger,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()))
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
