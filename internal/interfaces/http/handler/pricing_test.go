package handler

import (
	"fmt"
	"net/http"
	"testing"

	pricingapp "github.com/freshchain/scms/internal/application/pricing"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupPricingRoutes(svc PricingService) *gin.Engine {
	h := NewPricingHandler(svc, 7)
	engine := newTestEngine()
	engine.POST("/api/v1/pricing/quote", h.Quote)
	engine.POST("/api/v1/pricing/quote/bulk", h.QuoteBulk)
	engine.GET("/api/v1/pricing/expiry-discounts", h.SuggestExpiryDiscounts)
	engine.POST("/api/v1/pricing/expiry-discounts/apply", h.ApplyExpiryDiscounts)
	return engine
}

func TestPricingHandler_Quote(t *testing.T) {
	retailerID := uuid.New()
	productID := uuid.New()
	batchID := uuid.New()

	t.Run("returns the breakdown", func(t *testing.T) {
		svc := new(mockPricingService)
		quote := &pricingapp.QuoteResponse{
			RetailerID:      retailerID,
			ProductID:       productID,
			BatchID:         &batchID,
			Quantity:        decimal.NewFromInt(10),
			BasePrice:       decimal.RequireFromString("100"),
			UnitPrice:       decimal.RequireFromString("85.5"),
			DiscountPercent: decimal.RequireFromString("14.5"),
			LineTotal:       decimal.RequireFromString("855"),
			Discounts: []strategy.AppliedDiscount{
				{Source: strategy.DiscountSourceTier, Name: "Gold", Percent: decimal.NewFromInt(10)},
			},
		}
		svc.On("Quote", mock.Anything, mock.MatchedBy(func(req pricingapp.QuoteRequest) bool {
			return req.RetailerID == retailerID && req.BatchID != nil && *req.BatchID == batchID
		})).Return(quote, nil)

		body := fmt.Sprintf(`{"retailer_id":%q,"product_id":%q,"quantity":"10","batch_id":%q}`, retailerID, productID, batchID)
		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodPost, "/api/v1/pricing/quote", body)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var got pricingapp.QuoteResponse
		decodeData(t, resp, &got)
		assert.True(t, got.UnitPrice.Equal(quote.UnitPrice))
		require.Len(t, got.Discounts, 1)
		assert.Equal(t, "Gold", got.Discounts[0].Name)
	})

	t.Run("missing product", func(t *testing.T) {
		svc := new(mockPricingService)
		body := fmt.Sprintf(`{"retailer_id":%q,"quantity":"10"}`, retailerID)
		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodPost, "/api/v1/pricing/quote", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "product_id", resp.Error.Details[0].Field)
	})

	t.Run("malformed json", func(t *testing.T) {
		svc := new(mockPricingService)
		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodPost, "/api/v1/pricing/quote", `{"retailer_id":`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	})

	t.Run("batch of another product", func(t *testing.T) {
		svc := new(mockPricingService)
		svc.On("Quote", mock.Anything, mock.Anything).
			Return(nil, shared.NewDomainError("INVALID_BATCH", "Batch does not belong to product"))

		body := fmt.Sprintf(`{"retailer_id":%q,"product_id":%q,"quantity":"1","batch_id":%q}`, retailerID, productID, batchID)
		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodPost, "/api/v1/pricing/quote", body)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "ERR_INVALID_BATCH", resp.Error.Code)
	})
}

func TestPricingHandler_QuoteBulk(t *testing.T) {
	retailerID := uuid.New()
	svc := new(mockPricingService)
	svc.On("QuoteBulk", mock.Anything, mock.MatchedBy(func(req pricingapp.BulkQuoteRequest) bool {
		return len(req.Items) == 2
	})).Return(&pricingapp.BulkQuoteResponse{RetailerID: retailerID, Total: decimal.NewFromInt(300)}, nil)

	body := fmt.Sprintf(`{"retailer_id":%q,"items":[{"product_id":%q,"quantity":"1"},{"product_id":%q,"quantity":"2"}]}`,
		retailerID, uuid.New(), uuid.New())
	w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodPost, "/api/v1/pricing/quote/bulk", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var got pricingapp.BulkQuoteResponse
	decodeData(t, resp, &got)
	assert.True(t, got.Total.Equal(decimal.NewFromInt(300)))
}

func TestPricingHandler_ExpiryDiscounts(t *testing.T) {
	t.Run("default look-ahead", func(t *testing.T) {
		svc := new(mockPricingService)
		svc.On("SuggestExpiryDiscounts", mock.Anything, 7).Return([]pricingapp.ExpiryDiscountSuggestion{
			{BatchNumber: "B-1", DaysUntilExpiry: 2, SuggestedDiscountPct: decimal.NewFromInt(30)},
		}, nil)

		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodGet, "/api/v1/pricing/expiry-discounts", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got []pricingapp.ExpiryDiscountSuggestion
		decodeData(t, resp, &got)
		require.Len(t, got, 1)
		assert.Equal(t, "B-1", got[0].BatchNumber)
	})

	t.Run("explicit days", func(t *testing.T) {
		svc := new(mockPricingService)
		svc.On("SuggestExpiryDiscounts", mock.Anything, 3).Return([]pricingapp.ExpiryDiscountSuggestion{}, nil)

		w, _ := performRequest(t, setupPricingRoutes(svc), http.MethodGet, "/api/v1/pricing/expiry-discounts?days=3", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("negative days", func(t *testing.T) {
		svc := new(mockPricingService)
		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodGet, "/api/v1/pricing/expiry-discounts?days=-1", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidInput, resp.Error.Code)
	})

	t.Run("apply", func(t *testing.T) {
		svc := new(mockPricingService)
		created := []uuid.UUID{uuid.New()}
		svc.On("ApplyExpiryDiscountRules", mock.Anything, 5).
			Return(&pricingapp.ApplyExpiryDiscountsResult{Created: created, Skipped: 2}, nil)

		w, resp := performRequest(t, setupPricingRoutes(svc), http.MethodPost, "/api/v1/pricing/expiry-discounts/apply?days=5", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got pricingapp.ApplyExpiryDiscountsResult
		decodeData(t, resp, &got)
		assert.Equal(t, created, got.Created)
		assert.Equal(t, 2, got.Skipped)
	})
}
