package pricing

import (
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RetailerPricing overrides how a retailer is priced, either for one product or,
// with a nil ProductID, as the retailer's general assignment.
type RetailerPricing struct {
	shared.BaseEntity
	RetailerID        uuid.UUID
	ProductID         *uuid.UUID
	PricingTierID     *uuid.UUID
	CustomPrice       *decimal.Decimal
	CustomDiscountPct *decimal.Decimal
	EffectiveFrom     time.Time
	EffectiveTo       *time.Time
	IsActive          bool
}

// NewRetailerPricing creates an active override effective from the given time
func NewRetailerPricing(retailerID uuid.UUID, productID *uuid.UUID, effectiveFrom time.Time) *RetailerPricing {
	if effectiveFrom.IsZero() {
		effectiveFrom = time.Now()
	}
	return &RetailerPricing{
		BaseEntity:    shared.NewBaseEntity(),
		RetailerID:    retailerID,
		ProductID:     productID,
		EffectiveFrom: effectiveFrom,
		IsActive:      true,
	}
}

// SetTier points the override at a pricing tier
func (p *RetailerPricing) SetTier(tierID *uuid.UUID) {
	p.PricingTierID = tierID
	p.UpdatedAt = time.Now()
}

// SetCustomPrice sets a fixed unit price
func (p *RetailerPricing) SetCustomPrice(price *decimal.Decimal) error {
	if price != nil && price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Custom price cannot be negative")
	}
	p.CustomPrice = price
	p.UpdatedAt = time.Now()
	return nil
}

// SetCustomDiscount sets a fixed discount percentage
func (p *RetailerPricing) SetCustomDiscount(pct *decimal.Decimal) error {
	if pct != nil {
		if err := validatePercent(*pct); err != nil {
			return err
		}
	}
	p.CustomDiscountPct = pct
	p.UpdatedAt = time.Now()
	return nil
}

// SetWindow sets the effective window; to may be nil for open-ended
func (p *RetailerPricing) SetWindow(from time.Time, to *time.Time) error {
	if to != nil && !to.After(from) {
		return shared.NewDomainError("INVALID_DATE", "Effective end must be after effective start")
	}
	p.EffectiveFrom = from
	p.EffectiveTo = to
	p.UpdatedAt = time.Now()
	return nil
}

// IsEffectiveAt returns true when the override is active and at falls in [from, to)
func (p *RetailerPricing) IsEffectiveAt(at time.Time) bool {
	if !p.IsActive {
		return false
	}
	if at.Before(p.EffectiveFrom) {
		return false
	}
	return p.EffectiveTo == nil || at.Before(*p.EffectiveTo)
}

// AppliesToProduct returns true for general overrides and for overrides of this product
func (p *RetailerPricing) AppliesToProduct(productID uuid.UUID) bool {
	return p.ProductID == nil || *p.ProductID == productID
}

// SelectOverride picks the override that governs (retailer, product) at a time.
// A product-specific override wins over the general one; among equals the most
// recently effective wins.
func SelectOverride(overrides []RetailerPricing, productID uuid.UUID, at time.Time) *RetailerPricing {
	var specific, general *RetailerPricing
	for i := range overrides {
		o := &overrides[i]
		if !o.IsEffectiveAt(at) || !o.AppliesToProduct(productID) {
			continue
		}
		if o.ProductID != nil {
			if specific == nil || o.EffectiveFrom.After(specific.EffectiveFrom) {
				specific = o
			}
			continue
		}
		if general == nil || o.EffectiveFrom.After(general.EffectiveFrom) {
			general = o
		}
	}
	if specific != nil {
		return specific
	}
	return general
}

// ResolveBaseAdjustment turns an optional override and tier into the adjustment the
// pricing strategy applies before rules. Custom price beats custom discount, which
// beats the tier midpoint. Returns nil when nothing applies.
func ResolveBaseAdjustment(override *RetailerPricing, tier *PricingTier) *strategy.BaseAdjustment {
	if override != nil {
		if override.CustomPrice != nil {
			price := *override.CustomPrice
			return &strategy.BaseAdjustment{
				Source:     strategy.DiscountSourceCustomPrice,
				Name:       "custom price",
				FixedPrice: &price,
			}
		}
		if override.CustomDiscountPct != nil {
			return &strategy.BaseAdjustment{
				Source:  strategy.DiscountSourceCustomDiscount,
				Name:    "custom discount",
				Percent: *override.CustomDiscountPct,
			}
		}
	}
	if tier == nil {
		return nil
	}
	return &strategy.BaseAdjustment{
		Source:  strategy.DiscountSourceTier,
		Name:    tier.Name,
		Percent: tier.DiscountPercent(),
	}
}
