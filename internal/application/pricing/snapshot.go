package pricing

import (
	"time"

	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
)

// Snapshot is the read-mostly pricing data for one retailer at one instant.
// Pricing several lines against the same snapshot keeps them consistent with each other.
type Snapshot struct {
	Retailer  *pricing.Retailer
	At        time.Time
	overrides []pricing.RetailerPricing
	tiers     map[uuid.UUID]*pricing.PricingTier
	rules     []pricing.PricingRule
}

func newSnapshot(
	retailer *pricing.Retailer,
	at time.Time,
	overrides []pricing.RetailerPricing,
	tiers []pricing.PricingTier,
	rules []pricing.PricingRule,
) *Snapshot {
	byID := make(map[uuid.UUID]*pricing.PricingTier, len(tiers))
	for i := range tiers {
		byID[tiers[i].ID] = &tiers[i]
	}
	return &Snapshot{
		Retailer:  retailer,
		At:        at,
		overrides: overrides,
		tiers:     byID,
		rules:     rules,
	}
}

// BaseAdjustment resolves the retailer-level adjustment for a product.
// A product-specific override beats the general one; the override's tier, when
// set, replaces the retailer's assigned tier.
func (s *Snapshot) BaseAdjustment(productID uuid.UUID) *strategy.BaseAdjustment {
	override := pricing.SelectOverride(s.overrides, productID, s.At)

	tierID := s.Retailer.PricingTierID
	if override != nil && override.PricingTierID != nil {
		tierID = override.PricingTierID
	}
	var tier *pricing.PricingTier
	if tierID != nil {
		tier = s.tiers[*tierID]
	}
	return pricing.ResolveBaseAdjustment(override, tier)
}

// Rules returns the dynamic rules applicable to a product for this retailer
func (s *Snapshot) Rules(productID uuid.UUID) []strategy.DiscountRule {
	return pricing.ApplicableRules(s.rules, productID, s.Retailer.ID, s.At)
}

// MissingTier reports a tier ID the retailer points at that no longer exists
func (s *Snapshot) MissingTier() *uuid.UUID {
	if id := s.Retailer.PricingTierID; id != nil {
		if _, ok := s.tiers[*id]; !ok {
			return id
		}
	}
	return nil
}
