package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	alertapp "github.com/freshchain/scms/internal/application/alert"
	catalogapp "github.com/freshchain/scms/internal/application/catalog"
	inventoryapp "github.com/freshchain/scms/internal/application/inventory"
	pricingapp "github.com/freshchain/scms/internal/application/pricing"
	tradeapp "github.com/freshchain/scms/internal/application/trade"
	"github.com/freshchain/scms/internal/infrastructure/cache"
	"github.com/freshchain/scms/internal/infrastructure/config"
	"github.com/freshchain/scms/internal/infrastructure/event"
	"github.com/freshchain/scms/internal/infrastructure/logger"
	"github.com/freshchain/scms/internal/infrastructure/messaging"
	"github.com/freshchain/scms/internal/infrastructure/metrics"
	"github.com/freshchain/scms/internal/infrastructure/persistence"
	"github.com/freshchain/scms/internal/infrastructure/scheduler"
	infrastrategy "github.com/freshchain/scms/internal/infrastructure/strategy"
	"github.com/freshchain/scms/internal/infrastructure/telemetry"
	"github.com/freshchain/scms/internal/interfaces/http/handler"
	"github.com/freshchain/scms/internal/interfaces/http/middleware"
	"github.com/freshchain/scms/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const serviceVersion = "1.0.0"

//	@title			Fresh Supply Chain Allocation & Pricing API
//	@version		1.0
//	@description	Batch allocation, retailer pricing, order intake and expiry alerts for perishable stock
//	@BasePath		/api/v1

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
		Service:    cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting allocation and pricing engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Root context for background workers, cancelled on shutdown
	rootCtx, stopWorkers := context.WithCancel(context.Background())
	defer stopWorkers()

	// Telemetry
	telemetryCfg := telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
		MetricsInterval:   cfg.Telemetry.MetricsInterval,
	}
	tracerProvider, err := telemetry.NewTracerProvider(rootCtx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(rootCtx, telemetryCfg, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	meter := meterProvider.Meter(cfg.Telemetry.ServiceName)

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	dbTracing, err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
	}, meter, log)
	if err != nil {
		log.Fatal("Failed to create database tracing plugin", zap.Error(err))
	}
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		if reg, err := telemetry.ObservePoolStats(meter, sqlDB); err != nil {
			log.Warn("Failed to observe connection pool", zap.Error(err))
		} else {
			defer func() { _ = reg.Unregister() }()
		}
	}

	engineMetrics, err := telemetry.NewEngineMetrics(meter, telemetry.NewGormStockMetricsProvider(db.DB), log)
	if err != nil {
		log.Fatal("Failed to create engine metrics", zap.Error(err))
	}
	defer engineMetrics.Stop()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	recordRepo := persistence.NewGormInventoryRecordRepository(db.DB)
	retailerRepo := persistence.NewGormRetailerRepository(db.DB)
	tierRepo := persistence.NewGormTierRepository(db.DB)
	overrideRepo := persistence.NewGormRetailerPricingRepository(db.DB)
	ruleRepo := persistence.NewGormPricingRuleRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	alertRepo := persistence.NewGormAlertRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Strategies
	strategies, err := infrastrategy.NewRegistryWithDefaults(cfg.Allocation.DefaultMethod)
	if err != nil {
		log.Fatal("Failed to build strategy registry", zap.Error(err))
	}

	// Pricing snapshot cache, Redis when reachable
	pricingCache, closeCache := cache.NewPricingCache(cfg.Redis, log)
	defer func() {
		if err := closeCache(); err != nil {
			log.Error("Error closing pricing cache", zap.Error(err))
		}
	}()

	// Event bus
	eventBus := event.NewInMemoryEventBus(log)

	var (
		rmq       *messaging.RabbitMQ
		publisher messaging.Publisher
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.Dial(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal("Failed to connect to RabbitMQ", zap.Error(err))
		}
		defer func() {
			if err := rmq.Close(); err != nil {
				log.Error("Error closing RabbitMQ", zap.Error(err))
			}
		}()
		amqpPublisher, err := messaging.NewAMQPPublisher(rmq, cfg.RabbitMQ.Exchange, cfg.App.Name, log)
		if err != nil {
			log.Fatal("Failed to create alert publisher", zap.Error(err))
		}
		publisher = amqpPublisher
	}
	alertForwarder := messaging.NewAlertForwarder(publisher, event.NewEngineSerializer(), cfg.RabbitMQ.RoutingKey, log)
	eventBus.Subscribe(alertForwarder)
	log.Info("Event handlers registered",
		zap.Strings("alert_forwarder_events", alertForwarder.EventTypes()),
		zap.Bool("broker_enabled", publisher != nil),
	)

	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	catalogService := catalogapp.NewCatalogService(productRepo, batchRepo)
	inventoryService := inventoryapp.NewInventoryService(productRepo, recordRepo)

	allocationService := inventoryapp.NewAllocationService(productRepo, batchRepo, recordRepo, strategies, txScope, log)
	retryPolicy := inventoryapp.RetryPolicy{MaxRetries: cfg.Allocation.MaxRetries, Backoff: cfg.Allocation.RetryBackoff}
	allocationService.SetRetryPolicy(retryPolicy)
	allocationService.SetMetrics(engineMetrics)

	pricingService := pricingapp.NewPricingService(
		productRepo, batchRepo, retailerRepo, tierRepo, overrideRepo, ruleRepo,
		strategies, catalogService, log,
	)
	pricingService.SetCache(pricingCache)

	orderAssembler := tradeapp.NewOrderAssembler(retailerRepo, productRepo, orderRepo, allocationService, pricingService, txScope, log)
	orderAssembler.SetRetryPolicy(retryPolicy)
	orderAssembler.SetEventPublisher(eventBus)
	orderAssembler.SetMetrics(engineMetrics)

	alertScanner := alertapp.NewAlertScanner(catalogService, batchRepo, recordRepo, alertRepo, log)
	alertScanner.SetEventPublisher(eventBus)
	alertScanner.SetMetrics(engineMetrics)
	alertService := alertapp.NewAlertService(alertRepo, log)

	// Job metrics are scraped from /metrics
	promRegistry := metrics.NewRegistry()
	jobMetrics := metrics.NewJobMetrics(promRegistry)

	if cfg.Alerts.Enabled {
		alertScheduler, err := scheduler.NewAlertScheduler(scheduler.SchedulerConfig{
			Interval:        cfg.Alerts.SweepInterval,
			ExpiryDaysAhead: cfg.Alerts.ExpiryDaysAhead,
			RunOnStart:      cfg.Alerts.RunOnStart,
			CleanupAge:      cfg.Alerts.CleanupAge,
		}, alertScanner, alertService, jobMetrics, log)
		if err != nil {
			log.Fatal("Failed to create alert scheduler", zap.Error(err))
		}
		if err := alertScheduler.Start(rootCtx); err != nil {
			log.Fatal("Failed to start alert scheduler", zap.Error(err))
		}
		defer func() {
			if err := alertScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping alert scheduler", zap.Error(err))
			}
		}()
		log.Info("Alert scheduler started",
			zap.Duration("interval", cfg.Alerts.SweepInterval),
			zap.Int("expiry_days_ahead", cfg.Alerts.ExpiryDaysAhead),
		)
	}

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine, err := router.NewEngine(rootCtx, router.EngineConfig{
		ServiceName:    cfg.Telemetry.ServiceName,
		TracingEnabled: cfg.Telemetry.Enabled,
		TrustedProxies: cfg.HTTP.TrustedProxies,
		RequestTimeout: cfg.HTTP.RequestTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
		RateLimit:      cfg.HTTP.RateLimit,
		RateWindow:     cfg.HTTP.RateWindow,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		HSTSEnabled:    cfg.HTTP.HSTSEnabled,
	}, log, meter)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, serviceVersion).
		AddCheck("database", func(context.Context) error { return db.Ping() })
	if pinger, ok := pricingCache.(interface{ Ping(context.Context) error }); ok {
		systemHandler.AddCheck("redis", pinger.Ping)
	}
	if rmq != nil {
		systemHandler.AddCheck("rabbitmq", func(context.Context) error {
			if !rmq.Healthy() {
				return errors.New("connection closed")
			}
			return nil
		})
	}

	defaultDays := cfg.Alerts.ExpiryDaysAhead
	router.RegisterRoutes(engine, router.Handlers{
		Orders:    handler.NewOrderHandler(orderAssembler),
		Pricing:   handler.NewPricingHandler(pricingService, defaultDays),
		Inventory: handler.NewInventoryHandler(allocationService, inventoryService),
		Catalog:   handler.NewCatalogHandler(catalogService, defaultDays),
		Alerts:    handler.NewAlertHandler(alertScanner, alertService, defaultDays),
		System:    systemHandler,
	}, metrics.Handler(promRegistry))

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	stopWorkers()

	if err := meterProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(ctx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
