package pricing

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpiryRulePriority is the priority given to generated expiry clearance rules
const ExpiryRulePriority = 100

// SuggestedExpiryDiscount returns the clearance discount for a batch expiring in daysUntilExpiry days
func SuggestedExpiryDiscount(daysUntilExpiry int) decimal.Decimal {
	switch {
	case daysUntilExpiry <= 1:
		return decimal.NewFromInt(30)
	case daysUntilExpiry <= 3:
		return decimal.NewFromInt(20)
	case daysUntilExpiry <= 7:
		return decimal.NewFromInt(10)
	default:
		return decimal.NewFromInt(5)
	}
}

// NewExpiryClearanceRule builds a product-scoped expiry rule for a batch
func NewExpiryClearanceRule(productID uuid.UUID, batchNumber string, daysUntilExpiry int) (*PricingRule, error) {
	rule, err := NewPricingRule(fmt.Sprintf("Expiry clearance %s", batchNumber), ExpiryRulePriority)
	if err != nil {
		return nil, err
	}
	rule.Scope(&productID, nil)
	threshold := daysUntilExpiry
	if threshold < 0 {
		threshold = 0
	}
	if err := rule.SetExpiryTrigger(threshold, SuggestedExpiryDiscount(daysUntilExpiry)); err != nil {
		return nil, err
	}
	return rule, nil
}

// SameTrigger reports whether two rules discount the same product scope with the same expiry trigger
func SameTrigger(a, b *PricingRule) bool {
	if !equalUUIDPtr(a.ProductID, b.ProductID) || !equalUUIDPtr(a.RetailerID, b.RetailerID) {
		return false
	}
	if (a.ExpiryThresholdDays == nil) != (b.ExpiryThresholdDays == nil) {
		return false
	}
	if a.ExpiryThresholdDays != nil && *a.ExpiryThresholdDays != *b.ExpiryThresholdDays {
		return false
	}
	return a.ExpiryDiscountPct.Equal(b.ExpiryDiscountPct)
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
