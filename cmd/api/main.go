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

	httptransport "github.com/spec-kit/triage-service/internal/api/http"
	"github.com/spec-kit/triage-service/internal/api/http/handlers"
	"github.com/spec-kit/triage-service/internal/auth"
	"github.com/spec-kit/triage-service/internal/config"
	"github.com/spec-kit/triage-service/internal/events"
	"github.com/spec-kit/triage-service/internal/messaging"
	"github.com/spec-kit/triage-service/internal/narrative"
	"github.com/spec-kit/triage-service/internal/observability"
	"github.com/spec-kit/triage-service/internal/persistence"
	"github.com/spec-kit/triage-service/internal/referencedata"
	"github.com/spec-kit/triage-service/internal/repository"
	"github.com/spec-kit/triage-service/internal/service"
	"github.com/spec-kit/triage-service/internal/triage"
	"github.com/spec-kit/triage-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	var orderSource referencedata.OrderSource
	if cfg.Data.OrdersSource == config.OrdersSourcePostgres {
		orderSource = repository.NewOrderRepository(pg.PoolHandle())
	}
	data, err := referencedata.Load(ctx, cfg.Data, orderSource, logger)
	if err != nil {
		logger.Fatal("failed to load reference data", zap.Error(err))
	}

	generator, err := narrative.New(ctx, cfg.Narrative)
	if err != nil {
		logger.Fatal("failed to init narrative generator", zap.Error(err))
	}
	if cfg.Narrative.APIKey == "" {
		logger.Warn("no narrative API key configured; triage runs will fail classification",
			zap.String("provider", cfg.Narrative.Provider))
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	kafka := messaging.NewKafkaPublisher(cfg.Kafka, logger)
	defer func() {
		if err := kafka.Close(); err != nil {
			logger.Warn("close kafka writer", zap.Error(err))
		}
	}()

	var fanOut service.ChannelPublisher
	if redis.Enabled() {
		fanOut = redis
	}
	notifications := service.NewNotificationService(dispatcher, logger, fanOut, cfg.Redis.EventsChannel)
	worker.StartEventWorker(dispatcher, notifications, kafka)

	table := data.Table()
	directory := data.Directory()
	pipeline := triage.New(triage.Dependencies{
		Rules:                     table,
		Orders:                    directory,
		Narrative:                 generator,
		Logger:                    logger,
		NarrativeTimeout:          cfg.Narrative.Timeout(),
		DegradeOnNarrativeFailure: cfg.Narrative.Degrade(),
	})
	triageService := service.NewTriageService(service.TriageDependencies{
		Pipeline:   pipeline,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})

	readiness := map[string]handlers.Pinger{}
	if pg.Enabled() {
		readiness["postgres"] = pg
	}
	if redis.Enabled() {
		readiness["redis"] = redis
	}

	routes := httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, readiness),
		Triage:  handlers.NewTriageHandler(triageService),
		Orders:  handlers.NewOrdersHandler(directory),
		Rules:   handlers.NewRulesHandler(table),
		Metrics: handlers.NewMetricsHandler(metrics),
	}
	if cfg.Auth.Enabled {
		authService := service.NewAuthService(cfg.Auth)
		routes.Auth = handlers.NewAuthHandler(authService)
		routes.AuthMiddleware = auth.NewAuthMiddleware(authService.TokenManager())
	}

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, routes)

	logger.Info("starting triage service",
		zap.String("addr", cfg.App.Addr()),
		zap.Int("orders", directory.Len()),
		zap.Int("rules", len(data.Rules)),
		zap.Strings("stages", pipeline.StageNames()))

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
