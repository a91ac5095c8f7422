package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	alertapp "github.com/freshchain/scms/internal/application/alert"
	catalogapp "github.com/freshchain/scms/internal/application/catalog"
	inventoryapp "github.com/freshchain/scms/internal/application/inventory"
	pricingapp "github.com/freshchain/scms/internal/application/pricing"
	tradeapp "github.com/freshchain/scms/internal/application/trade"
	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/freshchain/scms/internal/interfaces/http/dto"
	"github.com/freshchain/scms/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

func newTestEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(middleware.RequestID())
	return engine
}

func performRequest(t *testing.T, engine *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	var resp dto.Response
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	}
	return w, resp
}

// decodeData re-decodes the generic Data payload into out
func decodeData(t *testing.T, resp dto.Response, out any) {
	t.Helper()
	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

type mockOrderService struct{ mock.Mock }

func (m *mockOrderService) PlaceOrder(ctx context.Context, req tradeapp.PlaceOrderRequest) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

func (m *mockOrderService) GetOrder(ctx context.Context, id uuid.UUID) (*tradeapp.OrderResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*tradeapp.OrderResponse), args.Error(1)
}

type mockPricingService struct{ mock.Mock }

func (m *mockPricingService) Quote(ctx context.Context, req pricingapp.QuoteRequest) (*pricingapp.QuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.QuoteResponse), args.Error(1)
}

func (m *mockPricingService) QuoteBulk(ctx context.Context, req pricingapp.BulkQuoteRequest) (*pricingapp.BulkQuoteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.BulkQuoteResponse), args.Error(1)
}

func (m *mockPricingService) SuggestExpiryDiscounts(ctx context.Context, withinDays int) ([]pricingapp.ExpiryDiscountSuggestion, error) {
	args := m.Called(ctx, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pricingapp.ExpiryDiscountSuggestion), args.Error(1)
}

func (m *mockPricingService) ApplyExpiryDiscountRules(ctx context.Context, withinDays int) (*pricingapp.ApplyExpiryDiscountsResult, error) {
	args := m.Called(ctx, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricingapp.ApplyExpiryDiscountsResult), args.Error(1)
}

type mockAllocationService struct{ mock.Mock }

func (m *mockAllocationService) Plan(ctx context.Context, req inventoryapp.AllocationRequest) (*inventory.AllocationPlan, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.AllocationPlan), args.Error(1)
}

type mockSummaryService struct{ mock.Mock }

func (m *mockSummaryService) Summary(ctx context.Context, productID uuid.UUID) (*inventory.Summary, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.Summary), args.Error(1)
}

type mockCatalogService struct{ mock.Mock }

func (m *mockCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogapp.ProductResponse), args.Error(1)
}

func (m *mockCatalogService) ListProducts(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalogapp.ProductResponse), args.Get(1).(int64), args.Error(2)
}

func (m *mockCatalogService) ListBatchesForProduct(ctx context.Context, productID uuid.UUID, statuses ...catalog.BatchStatus) ([]catalogapp.BatchResponse, error) {
	args := m.Called(ctx, productID, statuses)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.BatchResponse), args.Error(1)
}

func (m *mockCatalogService) ExpiringBatches(ctx context.Context, withinDays int) ([]catalogapp.BatchResponse, error) {
	args := m.Called(ctx, withinDays)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogapp.BatchResponse), args.Error(1)
}

type mockAlertScanner struct{ mock.Mock }

func (m *mockAlertScanner) CheckExpiry(ctx context.Context, daysAhead int) (alertapp.ScanResult, error) {
	args := m.Called(ctx, daysAhead)
	return args.Get(0).(alertapp.ScanResult), args.Error(1)
}

func (m *mockAlertScanner) CheckLowStock(ctx context.Context) (alertapp.ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(alertapp.ScanResult), args.Error(1)
}

func (m *mockAlertScanner) CheckExpiredBatches(ctx context.Context) (alertapp.ScanResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(alertapp.ScanResult), args.Error(1)
}

type mockAlertService struct{ mock.Mock }

func (m *mockAlertService) transition(method string, ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error) {
	args := m.MethodCalled(method, ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alertapp.AlertResponse), args.Error(1)
}

func (m *mockAlertService) Acknowledge(ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error) {
	return m.transition("Acknowledge", ctx, id)
}

func (m *mockAlertService) Resolve(ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error) {
	return m.transition("Resolve", ctx, id)
}

func (m *mockAlertService) Dismiss(ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error) {
	return m.transition("Dismiss", ctx, id)
}

func (m *mockAlertService) ListActive(ctx context.Context, filter alertapp.AlertListFilter) ([]alertapp.AlertResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]alertapp.AlertResponse), args.Error(1)
}

func (m *mockAlertService) Summary(ctx context.Context) (*alert.Counts, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*alert.Counts), args.Error(1)
}
