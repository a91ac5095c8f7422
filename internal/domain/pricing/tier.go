package pricing

import (
	"strings"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
)

// PricingTier is a named discount band
type PricingTier struct {
	shared.BaseEntity
	Name           string
	Description    string
	MinDiscountPct decimal.Decimal
	MaxDiscountPct decimal.Decimal
}

// NewPricingTier creates a tier; 0 <= min <= max <= 100
func NewPricingTier(name string, minPct, maxPct decimal.Decimal) (*PricingTier, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Tier name cannot be empty")
	}
	if err := validatePercent(minPct); err != nil {
		return nil, err
	}
	if err := validatePercent(maxPct); err != nil {
		return nil, err
	}
	if minPct.GreaterThan(maxPct) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Minimum discount cannot exceed maximum discount")
	}

	return &PricingTier{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		MinDiscountPct: minPct,
		MaxDiscountPct: maxPct,
	}, nil
}

// DiscountPercent is the tier's effective discount: the midpoint of its range
func (t *PricingTier) DiscountPercent() decimal.Decimal {
	return t.MinDiscountPct.Add(t.MaxDiscountPct).Div(two)
}

func validatePercent(pct decimal.Decimal) error {
	if pct.IsNegative() || pct.GreaterThan(hundred) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
	}
	return nil
}
