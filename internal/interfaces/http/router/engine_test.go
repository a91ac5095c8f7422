package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/freshchain/scms/internal/interfaces/http/handler"
	"github.com/freshchain/scms/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func testHandlers() Handlers {
	return Handlers{
		Orders:    handler.NewOrderHandler(nil),
		Pricing:   handler.NewPricingHandler(nil, 7),
		Inventory: handler.NewInventoryHandler(nil, nil),
		Catalog:   handler.NewCatalogHandler(nil, 7),
		Alerts:    handler.NewAlertHandler(nil, nil, 7),
		System: handler.NewSystemHandler("scms-engine", "test").
			AddCheck("database", func(context.Context) error { return nil }),
	}
}

func newTestEngine(t *testing.T, cfg EngineConfig) *gin.Engine {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	engine, err := NewEngine(ctx, cfg, zaptest.NewLogger(t), nil)
	require.NoError(t, err)
	RegisterRoutes(engine, testHandlers(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	}))
	return engine
}

func TestRegisterRoutes(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{ServiceName: "scms-engine"})

	registered := make(map[string]bool)
	for _, route := range engine.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/v1/orders",
		"GET /api/v1/orders/:id",
		"POST /api/v1/pricing/quote",
		"POST /api/v1/pricing/quote/bulk",
		"GET /api/v1/pricing/expiry-discounts",
		"POST /api/v1/pricing/expiry-discounts/apply",
		"POST /api/v1/allocations/plan",
		"GET /api/v1/inventory/summary/:productId",
		"GET /api/v1/products",
		"GET /api/v1/products/:id",
		"GET /api/v1/products/:id/batches",
		"GET /api/v1/batches/expiring",
		"GET /api/v1/alerts",
		"GET /api/v1/alerts/summary",
		"POST /api/v1/alerts/check/expiry",
		"POST /api/v1/alerts/check/low-stock",
		"POST /api/v1/alerts/check/expired-batches",
		"POST /api/v1/alerts/:id/acknowledge",
		"POST /api/v1/alerts/:id/resolve",
		"POST /api/v1/alerts/:id/dismiss",
		"GET /api/v1/system/info",
		"GET /api/v1/system/ping",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestEngine_HealthAndMetrics(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{ServiceName: "scms-engine"})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, "# metrics", w.Body.String())
}

func TestEngine_BodyLimit(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{MaxBodyBytes: 64})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(strings.Repeat("x", 200)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestEngine_RateLimit(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{RateLimit: 2, RateWindow: time.Minute})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/system/ping", nil)
		req.RemoteAddr = "192.0.2.10:4000"
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestEngine_CORS(t *testing.T) {
	engine := newTestEngine(t, EngineConfig{CORSOrigins: []string{"https://ops.freshchain.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/pricing/quote", nil)
	req.Header.Set("Origin", "https://ops.freshchain.example")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://ops.freshchain.example", w.Header().Get("Access-Control-Allow-Origin"))
}
