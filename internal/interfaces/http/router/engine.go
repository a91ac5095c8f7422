package router

import (
	"context"
	"net/http"
	"time"

	"github.com/freshchain/scms/internal/infrastructure/logger"
	"github.com/freshchain/scms/internal/interfaces/http/handler"
	"github.com/freshchain/scms/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// EngineConfig holds the HTTP middleware settings
type EngineConfig struct {
	ServiceName    string
	TracingEnabled bool
	TrustedProxies []string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	RateLimit      int
	RateWindow     time.Duration
	CORSOrigins    []string
	HSTSEnabled    bool
}

// NewEngine builds a gin engine with the standard middleware chain:
// request ID, recovery and logging, tracing, metrics, security headers and CORS,
// body limit, rate limit and request timeout. The rate limiter's idle-client
// sweep stops when ctx is done. meter may be nil.
func NewEngine(ctx context.Context, cfg EngineConfig, log *zap.Logger, meter metric.Meter) (*gin.Engine, error) {
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.ServiceName,
		Enabled:     cfg.TracingEnabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(meter, log))

	hsts := middleware.DefaultSecurityConfig()
	hsts.HSTSEnabled = cfg.HSTSEnabled
	engine.Use(middleware.SecureWithConfig(hsts))

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.CORSOrigins
	engine.Use(middleware.CORSWithConfig(cors))

	if cfg.MaxBodyBytes > 0 {
		engine.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	}
	if cfg.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
		limiter.StartCleanup(ctx.Done())
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.RateLimit),
			zap.Duration("window", cfg.RateWindow),
		)
	}
	engine.Use(middleware.Timeout(cfg.RequestTimeout))

	return engine, nil
}

// Handlers groups the HTTP handlers mounted by RegisterRoutes
type Handlers struct {
	Orders    *handler.OrderHandler
	Pricing   *handler.PricingHandler
	Inventory *handler.InventoryHandler
	Catalog   *handler.CatalogHandler
	Alerts    *handler.AlertHandler
	System    *handler.SystemHandler
}

// RegisterRoutes mounts the health and metrics endpoints and the v1 API.
// metricsHandler may be nil.
func RegisterRoutes(engine *gin.Engine, h Handlers, metricsHandler http.Handler) {
	engine.GET("/health", h.System.Health)
	if metricsHandler != nil {
		engine.GET("/metrics", gin.WrapH(metricsHandler))
	}

	orders := NewDomainGroup("orders", "/orders").
		POST("", h.Orders.PlaceOrder).
		GET("/:id", h.Orders.GetOrder)

	pricing := NewDomainGroup("pricing", "/pricing").
		POST("/quote", h.Pricing.Quote).
		POST("/quote/bulk", h.Pricing.QuoteBulk).
		GET("/expiry-discounts", h.Pricing.SuggestExpiryDiscounts).
		POST("/expiry-discounts/apply", h.Pricing.ApplyExpiryDiscounts)

	allocations := NewDomainGroup("allocations", "/allocations").
		POST("/plan", h.Inventory.PlanAllocation)

	inventory := NewDomainGroup("inventory", "/inventory").
		GET("/summary/:productId", h.Inventory.GetSummary)

	products := NewDomainGroup("products", "/products").
		GET("", h.Catalog.ListProducts).
		GET("/:id", h.Catalog.GetProduct).
		GET("/:id/batches", h.Catalog.ListBatches)

	batches := NewDomainGroup("batches", "/batches").
		GET("/expiring", h.Catalog.ExpiringBatches)

	alerts := NewDomainGroup("alerts", "/alerts").
		GET("", h.Alerts.ListActive).
		GET("/summary", h.Alerts.Summary).
		POST("/:id/acknowledge", h.Alerts.Acknowledge).
		POST("/:id/resolve", h.Alerts.Resolve).
		POST("/:id/dismiss", h.Alerts.Dismiss)
	alerts.Group("checks", "/check").
		POST("/expiry", h.Alerts.CheckExpiry).
		POST("/low-stock", h.Alerts.CheckLowStock).
		POST("/expired-batches", h.Alerts.CheckExpiredBatches)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	NewRouter(engine, WithAPIVersion("v1")).
		Register(orders).
		Register(pricing).
		Register(allocations).
		Register(inventory).
		Register(products).
		Register(batches).
		Register(alerts).
		Register(system).
		Setup()
}
