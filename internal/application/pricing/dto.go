package pricing

import (
	"time"

	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// QuoteRequest asks for the price of a quantity of one product for a retailer
type QuoteRequest struct {
	RetailerID uuid.UUID       `json:"retailer_id" binding:"required"`
	ProductID  uuid.UUID       `json:"product_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity" binding:"required,gt=0"`
	BatchID    *uuid.UUID      `json:"batch_id"`
}

// BulkQuoteItem is one product of a bulk quote
type BulkQuoteItem struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,gt=0"`
}

// BulkQuoteRequest prices several products for one retailer
type BulkQuoteRequest struct {
	RetailerID uuid.UUID       `json:"retailer_id" binding:"required"`
	Items      []BulkQuoteItem `json:"items" binding:"required,min=1,dive"`
}

// QuoteResponse is the discount breakdown for one quote
type QuoteResponse struct {
	RetailerID      uuid.UUID                  `json:"retailer_id"`
	ProductID       uuid.UUID                  `json:"product_id"`
	BatchID         *uuid.UUID                 `json:"batch_id,omitempty"`
	Quantity        decimal.Decimal            `json:"quantity"`
	BasePrice       decimal.Decimal            `json:"base_price"`
	UnitPrice       decimal.Decimal            `json:"unit_price"`
	DiscountAmount  decimal.Decimal            `json:"discount_amount"`
	DiscountPercent decimal.Decimal            `json:"discount_percent"`
	LineTotal       decimal.Decimal            `json:"line_total"`
	Discounts       []strategy.AppliedDiscount `json:"discounts"`
	PricedAt        time.Time                  `json:"priced_at"`
}

// BulkQuoteResponse holds per-product quotes and their sum
type BulkQuoteResponse struct {
	RetailerID uuid.UUID       `json:"retailer_id"`
	Items      []QuoteResponse `json:"items"`
	Total      decimal.Decimal `json:"total"`
}

// ExpiryDiscountSuggestion proposes a clearance discount for an expiring batch
type ExpiryDiscountSuggestion struct {
	BatchID              uuid.UUID       `json:"batch_id"`
	BatchNumber          string          `json:"batch_number"`
	ProductID            uuid.UUID       `json:"product_id"`
	ProductName          string          `json:"product_name"`
	DaysUntilExpiry      int             `json:"days_until_expiry"`
	CurrentQuantity      decimal.Decimal `json:"current_quantity"`
	CurrentPrice         decimal.Decimal `json:"current_price"`
	SuggestedDiscountPct decimal.Decimal `json:"suggested_discount_pct"`
	SuggestedPrice       decimal.Decimal `json:"suggested_price"`
}

// ApplyExpiryDiscountsResult reports rules created from suggestions
type ApplyExpiryDiscountsResult struct {
	Created []uuid.UUID `json:"created"`
	Skipped int         `json:"skipped"`
}

func toQuoteResponse(retailerID, productID uuid.UUID, batchID *uuid.UUID, result strategy.PricingResult, at time.Time) QuoteResponse {
	return QuoteResponse{
		RetailerID:      retailerID,
		ProductID:       productID,
		BatchID:         batchID,
		Quantity:        result.Quantity,
		BasePrice:       result.BasePrice,
		UnitPrice:       result.UnitPrice,
		DiscountAmount:  result.DiscountAmount,
		DiscountPercent: result.DiscountPercent,
		LineTotal:       result.LineTotal,
		Discounts:       result.Discounts,
		PricedAt:        at,
	}
}
