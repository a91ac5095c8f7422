package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricingRule is a dynamic discount that stacks on top of the retailer's base price.
// A nil ProductID or RetailerID matches any product or retailer.
type PricingRule struct {
	shared.BaseAggregateRoot
	Name                string
	ProductID           *uuid.UUID
	RetailerID          *uuid.UUID
	ExpiryThresholdDays *int
	ExpiryDiscountPct   decimal.Decimal
	VolumeMinQuantity   *decimal.Decimal
	VolumeDiscountPct   decimal.Decimal
	StartsAt            *time.Time
	EndsAt              *time.Time
	IsActive            bool
	Priority            int
}

// NewPricingRule creates an active rule with no triggers; call SetVolumeTrigger or SetExpiryTrigger
func NewPricingRule(name string, priority int) (*PricingRule, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Rule name cannot be empty")
	}
	return &PricingRule{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ExpiryDiscountPct: decimal.Zero,
		VolumeDiscountPct: decimal.Zero,
		IsActive:          true,
		Priority:          priority,
	}, nil
}

// Scope restricts the rule to a product and/or retailer
func (r *PricingRule) Scope(productID, retailerID *uuid.UUID) {
	r.ProductID = productID
	r.RetailerID = retailerID
	r.UpdatedAt = time.Now()
}

// SetVolumeTrigger discounts pct% once the ordered quantity reaches minQty
func (r *PricingRule) SetVolumeTrigger(minQty, pct decimal.Decimal) error {
	if !minQty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Volume trigger quantity must be positive")
	}
	if err := validatePercent(pct); err != nil {
		return err
	}
	r.VolumeMinQuantity = &minQty
	r.VolumeDiscountPct = pct
	r.UpdatedAt = time.Now()
	return nil
}

// SetExpiryTrigger discounts pct% for batches expiring within thresholdDays
func (r *PricingRule) SetExpiryTrigger(thresholdDays int, pct decimal.Decimal) error {
	if thresholdDays < 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Expiry threshold cannot be negative")
	}
	if err := validatePercent(pct); err != nil {
		return err
	}
	r.ExpiryThresholdDays = &thresholdDays
	r.ExpiryDiscountPct = pct
	r.UpdatedAt = time.Now()
	return nil
}

// SetWindow bounds when the rule applies; either end may be nil
func (r *PricingRule) SetWindow(startsAt, endsAt *time.Time) error {
	if startsAt != nil && endsAt != nil && !endsAt.After(*startsAt) {
		return shared.NewDomainError("INVALID_DATE", "Rule end must be after rule start")
	}
	r.StartsAt = startsAt
	r.EndsAt = endsAt
	r.UpdatedAt = time.Now()
	return nil
}

// Deactivate switches the rule off
func (r *PricingRule) Deactivate() {
	r.IsActive = false
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// Validate checks that the rule has at least one trigger
func (r *PricingRule) Validate() error {
	if r.VolumeMinQuantity == nil && r.ExpiryThresholdDays == nil {
		return shared.NewDomainError("INVALID_RULE", fmt.Sprintf("Rule '%s' has no volume or expiry trigger", r.Name))
	}
	return nil
}

// AppliesTo returns true if the rule is active, matches the product and retailer
// (nil matches anything) and its window contains at
func (r *PricingRule) AppliesTo(productID, retailerID uuid.UUID, at time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ProductID != nil && *r.ProductID != productID {
		return false
	}
	if r.RetailerID != nil && *r.RetailerID != retailerID {
		return false
	}
	if r.StartsAt != nil && at.Before(*r.StartsAt) {
		return false
	}
	if r.EndsAt != nil && at.After(*r.EndsAt) {
		return false
	}
	return true
}

// ToDiscountRule converts the rule to the pricing strategy's input
func (r *PricingRule) ToDiscountRule() strategy.DiscountRule {
	return strategy.DiscountRule{
		ID:                  r.ID.String(),
		Name:                r.Name,
		Priority:            r.Priority,
		VolumeMinQuantity:   r.VolumeMinQuantity,
		VolumeDiscountPct:   r.VolumeDiscountPct,
		ExpiryThresholdDays: r.ExpiryThresholdDays,
		ExpiryDiscountPct:   r.ExpiryDiscountPct,
	}
}

// ApplicableRules filters rules for a (product, retailer) pair at a time
func ApplicableRules(rules []PricingRule, productID, retailerID uuid.UUID, at time.Time) []strategy.DiscountRule {
	result := make([]strategy.DiscountRule, 0, len(rules))
	for i := range rules {
		if rules[i].AppliesTo(productID, retailerID, at) {
			result = append(result, rules[i].ToDiscountRule())
		}
	}
	return result
}
