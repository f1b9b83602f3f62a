package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/protekweb/support-chatbot/internal/api/http"
	"github.com/protekweb/support-chatbot/internal/api/http/handlers"
	"github.com/protekweb/support-chatbot/internal/auth"
	"github.com/protekweb/support-chatbot/internal/config"
	"github.com/protekweb/support-chatbot/internal/events"
	"github.com/protekweb/support-chatbot/internal/gateway"
	"github.com/protekweb/support-chatbot/internal/observability"
	"github.com/protekweb/support-chatbot/internal/persistence"
	"github.com/protekweb/support-chatbot/internal/repository"
	"github.com/protekweb/support-chatbot/internal/service"
	"github.com/protekweb/support-chatbot/internal/worker"
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

	keywords, err := config.LoadKeywords(cfg.App.KeywordsFile)
	if err != nil {
		logger.Warn("keywords file not loaded, using defaults", zap.Error(err))
	}

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	var archive repository.TicketArchive
	if pg.Enabled() {
		if cfg.Postgres.RunMigrations {
			if err := repository.EnsureArchiveSchema(ctx, pg.Pool); err != nil {
				logger.Fatal("failed to prepare archive schema", zap.Error(err))
			}
		}
		archive = repository.NewPgTicketArchive(pg.Pool)
	}

	var redis *persistence.Redis
	var sessions repository.SessionStore
	if cfg.Session.Backend == "redis" {
		redis = persistence.NewRedis(cfg.Redis, logger)
		defer redis.Close()
		sessions = repository.NewRedisSessionStore(redis.Client, cfg.Session.TTL())
	} else {
		sessions = repository.NewMemorySessionStore()
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()

	var ticketing gateway.TicketingGateway
	if cfg.Gateway.SonarAPIURL != "" {
		ticketing = gateway.NewSonarTicketing(cfg.Gateway.SonarAPIURL, cfg.Gateway.SonarAPIToken, cfg.Gateway.CallTimeout(), logger)
	} else {
		logger.Warn("no ticketing backend configured, using mock")
		ticketing = gateway.NewMockTicketing()
	}
	identity := gateway.NewSeededIdentityDirectory()
	diagnostics := gateway.NewMockDiagnostics()

	ticketService := service.NewTicketService(service.TicketDependencies{
		Store:       repository.NewMemoryTicketStore(),
		Archive:     archive,
		Ticketing:   ticketing,
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
		CallTimeout: cfg.Gateway.CallTimeout(),
	})

	conversationService := service.NewConversationService(service.ConversationDependencies{
		Sessions:    sessions,
		Tickets:     ticketService,
		Identity:    identity,
		Diagnostics: diagnostics,
		Classifier:  service.NewClassifier(keywords),
		Dispatcher:  dispatcher,
		Logger:      logger,
		Metrics:     metrics,
		CallTimeout: cfg.Gateway.CallTimeout(),
	})

	staffAuth, err := service.NewStaffAuthService(cfg.Auth)
	if err != nil {
		logger.Fatal("failed to seed staff directory", zap.Error(err))
	}
	authMiddleware := auth.NewAuthMiddleware(staffAuth.Tokens(), staffAuth)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Conversations:  handlers.NewConversationHandler(conversationService),
		Tickets:        handlers.NewTicketsHandler(ticketService),
		Staff:          handlers.NewStaffHandler(staffAuth),
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
