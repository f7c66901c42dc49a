package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	eventapp "github.com/erp/posting/internal/application/event"
	"github.com/erp/posting/internal/application/ledger"
	notificationapp "github.com/erp/posting/internal/application/notification"
	"github.com/erp/posting/internal/application/posting"
	"github.com/erp/posting/internal/domain/numbering"
	"github.com/erp/posting/internal/infrastructure/cache"
	"github.com/erp/posting/internal/infrastructure/config"
	"github.com/erp/posting/internal/infrastructure/event"
	"github.com/erp/posting/internal/infrastructure/logger"
	"github.com/erp/posting/internal/infrastructure/notification"
	"github.com/erp/posting/internal/infrastructure/persistence"
	"github.com/erp/posting/internal/infrastructure/telemetry"
	"github.com/erp/posting/internal/interfaces/http/handler"
	"github.com/erp/posting/internal/interfaces/http/middleware"
	"github.com/erp/posting/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

type shutdownFunc func(ctx context.Context) error

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx := context.Background()

	// OpenTelemetry providers. Each is a no-op when telemetry is disabled.
	telCfg := telemetry.ConfigFrom(cfg.Telemetry, version)
	log, shutdownTelemetry, postingMetrics := setupTelemetry(ctx, telCfg, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownTelemetry(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	log.Info("Starting posting service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Database with a zap-backed GORM logger and query tracing
	gormLog := logger.NewSQLLogger(log, logger.SQLLoggerConfig{
		Level:         logger.ParseSQLLogLevel(cfg.Log.Level),
		SlowThreshold: cfg.Database.SlowThreshold,
	})
	db, err := persistence.Open(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	dbTracing := telemetry.DefaultDBTracingConfig()
	dbTracing.Enabled = telCfg.Enabled
	if cfg.Database.SlowThreshold > 0 {
		dbTracing.SlowQueryThresh = cfg.Database.SlowThreshold
	}
	if err := telemetry.NewDBTracingPlugin(dbTracing, log).Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	// Redis is optional: it backs the alert throttle and the outbox dispatch lock
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		log.Info("Redis connected", zap.String("addr", cfg.Redis.Addr()))
	}

	// Event bus and low-stock alert delivery
	eventBus := event.NewInMemoryEventBus(log)

	var throttle notificationapp.Throttle = cache.NewInMemoryThrottle()
	if redisClient != nil {
		throttle = cache.NewRedisThrottle(redisClient, "posting:alerts")
	}
	alertHandler := notificationapp.NewLowStockAlertHandler(notification.NewLoggingSender(log), log).
		WithThrottle(throttle, cfg.Notification.ThrottleWindow)
	eventBus.Subscribe(alertHandler)
	log.Info("Event handlers registered", zap.Strings("low_stock_alert_events", alertHandler.EventTypes()))

	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Transactional outbox
	eventSerializer := event.NewEventSerializer()
	event.RegisterAllEvents(eventSerializer)
	outboxPublisher := event.NewOutboxPublisher(eventSerializer)
	if cfg.Outbox.MaxAttempts > 0 {
		outboxPublisher.WithMaxAttempts(cfg.Outbox.MaxAttempts)
	}
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	if cfg.Outbox.Enabled {
		processorCfg := event.OutboxProcessorConfigFrom(cfg.Outbox)
		outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, eventSerializer, processorCfg, log)
		if redisClient != nil {
			outboxProcessor.WithDispatchLock(cache.NewRedisDispatchLock(redisClient, cache.DefaultDispatchLockKey, cfg.Outbox.LockTTL))
		}
		if err := outboxProcessor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			if err := outboxProcessor.Stop(context.Background()); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
		log.Info("Outbox processor started",
			zap.Int("batch_size", processorCfg.BatchSize),
			zap.Duration("poll_interval", processorCfg.PollInterval),
			zap.Bool("dispatch_lock", redisClient != nil),
		)
	}

	// Application services
	txScope := persistence.NewGormTransactionScope(db.DB, outboxPublisher,
		persistence.WithIsolationLevel(persistence.ParseIsolationLevel(cfg.Posting.IsolationLevel)),
	)
	coordinator := posting.NewCoordinator(txScope, posting.Config{
		TransactionTimeout:   cfg.Posting.TransactionTimeout,
		MaxRetries:           cfg.Posting.MaxRetries,
		RetryInitialInterval: cfg.Posting.RetryInitialInterval,
		RetryMaxInterval:     cfg.Posting.RetryMaxInterval,
	}, log, posting.WithMetrics(postingMetrics))

	queryService := posting.NewQueryService(
		persistence.NewGormDocumentRepository(db.DB),
		persistence.NewGormStockHistoryRepository(db.DB),
		persistence.NewGormProductRepository(db.DB),
	)
	auditService := ledger.NewAuditService(
		persistence.NewSQLLedgerAuditRepository(db.Sqlx()),
		persistence.NewGormCounterRepository(db.DB),
		numbering.CounterStockEntry,
		log,
	)
	outboxService := eventapp.NewOutboxService(outboxRepo, log)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine, err := router.NewEngine(router.EngineConfig{
		ServiceName:    telCfg.ServiceName,
		TracingEnabled: telCfg.Enabled,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		TrustedProxies: cfg.HTTP.TrustedProxies,
	}, log)
	if err != nil {
		log.Fatal("Failed to create HTTP engine", zap.Error(err))
	}

	checks := []handler.HealthCheck{{Name: "database", Check: db.Ping}}
	if redisClient != nil {
		checks = append(checks, handler.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}})
	}
	handler.NewHealthHandler(version, checks...).Register(engine)

	router.NewRouter(engine).
		Register(
			handler.NewDocumentHandler(coordinator, queryService),
			handler.NewLedgerHandler(queryService, auditService),
			handler.NewOutboxHandler(outboxService),
		).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}

// setupTelemetry starts the trace, metric and log providers. The returned logger also
// exports to the collector when log export is enabled.
func setupTelemetry(ctx context.Context, cfg telemetry.Config, log *zap.Logger) (*zap.Logger, shutdownFunc, posting.Metrics) {
	tp, err := telemetry.NewTracerProvider(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	mp, err := telemetry.NewMeterProvider(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	lp, err := telemetry.NewLoggerProvider(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}

	metrics, err := telemetry.NewPostingMetrics(mp.Meter(telemetry.PostingMeterName))
	if err != nil {
		log.Fatal("Failed to create posting metrics", zap.Error(err))
	}

	shutdown := func(ctx context.Context) error {
		return errors.Join(lp.Shutdown(ctx), mp.Shutdown(ctx), tp.Shutdown(ctx))
	}
	return lp.Bridge(log, zapcore.InfoLevel), shutdown, metrics
}
