package pricing

import (
	"context"

	"github.com/google/uuid"
)

// RetailerRepository defines the interface for retailer persistence
type RetailerRepository interface {
	// FindByID finds a retailer by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Retailer, error)
	// Save creates or updates a retailer
	Save(ctx context.Context, retailer *Retailer) error
}

// TierRepository defines the interface for pricing tier persistence
type TierRepository interface {
	// FindByID finds a tier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PricingTier, error)
	// FindAll returns every tier ordered by name
	FindAll(ctx context.Context) ([]PricingTier, error)
	// Save creates or updates a tier
	Save(ctx context.Context, tier *PricingTier) error
}

// RetailerPricingRepository defines the interface for retailer pricing overrides
type RetailerPricingRepository interface {
	// FindActiveByRetailer returns all active overrides of a retailer, general and product-specific
	FindActiveByRetailer(ctx context.Context, retailerID uuid.UUID) ([]RetailerPricing, error)
	// Save creates or updates an override
	Save(ctx context.Context, override *RetailerPricing) error
}

// RuleRepository defines the interface for dynamic pricing rules
type RuleRepository interface {
	// FindActive returns all rules flagged active, ordered by priority descending
	FindActive(ctx context.Context) ([]PricingRule, error)
	// FindByID finds a rule by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*PricingRule, error)
	// Save creates or updates a rule
	Save(ctx context.Context, rule *PricingRule) error
}
