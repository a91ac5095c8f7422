package handler

import (
	"context"

	pricingapp "github.com/freshchain/scms/internal/application/pricing"
	"github.com/gin-gonic/gin"
)

// PricingService is the pricing surface the handler depends on
type PricingService interface {
	Quote(ctx context.Context, req pricingapp.QuoteRequest) (*pricingapp.QuoteResponse, error)
	QuoteBulk(ctx context.Context, req pricingapp.BulkQuoteRequest) (*pricingapp.BulkQuoteResponse, error)
	SuggestExpiryDiscounts(ctx context.Context, withinDays int) ([]pricingapp.ExpiryDiscountSuggestion, error)
	ApplyExpiryDiscountRules(ctx context.Context, withinDays int) (*pricingapp.ApplyExpiryDiscountsResult, error)
}

// PricingHandler handles quote and clearance discount endpoints
type PricingHandler struct {
	BaseHandler
	pricing     PricingService
	defaultDays int
}

// NewPricingHandler creates a new PricingHandler. defaultDays is the expiry
// look-ahead used when a request omits ?days=.
func NewPricingHandler(pricing PricingService, defaultDays int) *PricingHandler {
	return &PricingHandler{pricing: pricing, defaultDays: defaultDays}
}

// Quote godoc
// @ID           quotePrice
// @Summary      Quote a price
// @Description  Prices a quantity of one product for a retailer, optionally against a specific batch
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.QuoteRequest true "Quote request"
// @Success      200 {object} dto.Response{data=pricingapp.QuoteResponse}
// @Failure      400 {object} dto.Response
// @Failure      404 {object} dto.Response
// @Router       /pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req pricingapp.QuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quote, err := h.pricing.Quote(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// QuoteBulk godoc
// @ID           quoteBulkPrice
// @Summary      Quote several products
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body pricingapp.BulkQuoteRequest true "Bulk quote request"
// @Success      200 {object} dto.Response{data=pricingapp.BulkQuoteResponse}
// @Failure      400 {object} dto.Response
// @Router       /pricing/quote/bulk [post]
func (h *PricingHandler) QuoteBulk(c *gin.Context) {
	var req pricingapp.BulkQuoteRequest
	if !h.BindJSON(c, &req) {
		return
	}

	quotes, err := h.pricing.QuoteBulk(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quotes)
}

// SuggestExpiryDiscounts godoc
// @ID           suggestExpiryDiscounts
// @Summary      Suggest clearance discounts
// @Tags         pricing
// @Produce      json
// @Param        days query int false "Look-ahead days"
// @Success      200 {object} dto.Response{data=[]pricingapp.ExpiryDiscountSuggestion}
// @Router       /pricing/expiry-discounts [get]
func (h *PricingHandler) SuggestExpiryDiscounts(c *gin.Context) {
	days, ok := h.QueryDays(c, h.defaultDays)
	if !ok {
		return
	}

	suggestions, err := h.pricing.SuggestExpiryDiscounts(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, suggestions)
}

// ApplyExpiryDiscounts godoc
// @ID           applyExpiryDiscounts
// @Summary      Create clearance discount rules
// @Description  Turns the current suggestions into batch-scoped pricing rules, skipping batches that already have one
// @Tags         pricing
// @Produce      json
// @Param        days query int false "Look-ahead days"
// @Success      200 {object} dto.Response{data=pricingapp.ApplyExpiryDiscountsResult}
// @Router       /pricing/expiry-discounts/apply [post]
func (h *PricingHandler) ApplyExpiryDiscounts(c *gin.Context) {
	days, ok := h.QueryDays(c, h.defaultDays)
	if !ok {
		return
	}

	result, err := h.pricing.ApplyExpiryDiscountRules(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
