package strategy

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// DiscountSource identifies where an applied discount came from
type DiscountSource string

const (
	DiscountSourceTier           DiscountSource = "tier_discount"
	DiscountSourceCustomDiscount DiscountSource = "custom_discount"
	DiscountSourceCustomPrice    DiscountSource = "custom_price"
	DiscountSourceVolumeRule     DiscountSource = "volume_rule"
	DiscountSourceExpiryRule     DiscountSource = "expiry_rule"
)

// BaseAdjustment is the retailer-level adjustment applied before any rule.
// FixedPrice, when set, replaces the base price outright; otherwise Percent is
// taken off the base price.
type BaseAdjustment struct {
	Source     DiscountSource
	Name       string
	Percent    decimal.Decimal
	FixedPrice *decimal.Decimal
}

// DiscountRule is an applicable dynamic pricing rule, already matched on
// product, retailer and validity window.
type DiscountRule struct {
	ID                  string
	Name                string
	Priority            int
	VolumeMinQuantity   *decimal.Decimal
	VolumeDiscountPct   decimal.Decimal
	ExpiryThresholdDays *int
	ExpiryDiscountPct   decimal.Decimal
}

// PricingContext provides context for pricing calculation
type PricingContext struct {
	RetailerID string
	ProductID  string
	Quantity   decimal.Decimal
	BasePrice  decimal.Decimal
	Base       *BaseAdjustment
	Rules      []DiscountRule
	// DaysUntilExpiry is set only when a specific batch is being priced
	DaysUntilExpiry *int
	PricedAt        time.Time
}

// AppliedDiscount is one step of the discount breakdown
type AppliedDiscount struct {
	Source  DiscountSource  `json:"source"`
	Name    string          `json:"name"`
	Amount  decimal.Decimal `json:"amount"`
	Percent decimal.Decimal `json:"percent"`
}

// PricingResult contains the result of pricing calculation
type PricingResult struct {
	BasePrice       decimal.Decimal
	UnitPrice       decimal.Decimal
	Quantity        decimal.Decimal
	LineTotal       decimal.Decimal
	DiscountAmount  decimal.Decimal
	DiscountPercent decimal.Decimal
	Discounts       []AppliedDiscount
}

// PricingStrategy defines the interface for pricing calculation
type PricingStrategy interface {
	Strategy
	// CalculatePrice calculates the final unit price for a given pricing context
	CalculatePrice(ctx context.Context, pricingCtx PricingContext) (PricingResult, error)
}
