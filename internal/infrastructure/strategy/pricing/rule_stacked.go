package pricing

import (
	"context"
	"sort"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// RuleStackedPricingStrategy prices a unit by applying the retailer adjustment
// (tier midpoint, custom discount or custom price) to the reference price and then
// stacking dynamic rules in descending priority. Every rule percentage is taken
// from the price left by the previous step, never from the original base price.
type RuleStackedPricingStrategy struct {
	strategy.BaseStrategy
}

// NewRuleStackedPricingStrategy creates the rule-stacked pricing strategy
func NewRuleStackedPricingStrategy() *RuleStackedPricingStrategy {
	return &RuleStackedPricingStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"rule_stacked",
			strategy.StrategyTypePricing,
			"Retailer tier or override discount followed by priority-ordered volume and expiry rules",
		),
	}
}

// CalculatePrice computes the discount breakdown and final unit price
func (s *RuleStackedPricingStrategy) CalculatePrice(
	ctx context.Context,
	pricingCtx strategy.PricingContext,
) (strategy.PricingResult, error) {
	if err := validatePricingContext(pricingCtx); err != nil {
		return strategy.PricingResult{}, err
	}

	basePrice := pricingCtx.BasePrice
	currentPrice := basePrice
	discounts := make([]strategy.AppliedDiscount, 0)

	if adj := pricingCtx.Base; adj != nil {
		if adj.FixedPrice != nil {
			amount := basePrice.Sub(*adj.FixedPrice)
			currentPrice = *adj.FixedPrice
			if !amount.IsZero() {
				discounts = append(discounts, strategy.AppliedDiscount{
					Source:  adj.Source,
					Name:    adj.Name,
					Amount:  amount,
					Percent: percentOf(amount, basePrice),
				})
			}
		} else if adj.Percent.IsPositive() {
			var applied strategy.AppliedDiscount
			currentPrice, applied = applyPercent(currentPrice, adj.Percent, adj.Source, adj.Name)
			discounts = append(discounts, applied)
		}
	}

	for _, rule := range orderRules(pricingCtx.Rules) {
		if volumeTriggered(rule, pricingCtx.Quantity) {
			var applied strategy.AppliedDiscount
			currentPrice, applied = applyPercent(currentPrice, rule.VolumeDiscountPct, strategy.DiscountSourceVolumeRule, rule.Name)
			discounts = append(discounts, applied)
		}
		if expiryTriggered(rule, pricingCtx.DaysUntilExpiry) {
			var applied strategy.AppliedDiscount
			currentPrice, applied = applyPercent(currentPrice, rule.ExpiryDiscountPct, strategy.DiscountSourceExpiryRule, rule.Name)
			discounts = append(discounts, applied)
		}
	}

	if currentPrice.IsNegative() {
		currentPrice = decimal.Zero
	}

	discountAmount := basePrice.Sub(currentPrice)

	return strategy.PricingResult{
		BasePrice:       basePrice,
		UnitPrice:       currentPrice,
		Quantity:        pricingCtx.Quantity,
		LineTotal:       currentPrice.Mul(pricingCtx.Quantity),
		DiscountAmount:  discountAmount,
		DiscountPercent: percentOf(discountAmount, basePrice).Round(2),
		Discounts:       discounts,
	}, nil
}

// applyPercent takes pct% off price and returns the new price and the breakdown entry
func applyPercent(price, pct decimal.Decimal, source strategy.DiscountSource, name string) (decimal.Decimal, strategy.AppliedDiscount) {
	amount := price.Mul(pct).Div(hundred).Round(4)
	return price.Sub(amount), strategy.AppliedDiscount{
		Source:  source,
		Name:    name,
		Amount:  amount,
		Percent: pct,
	}
}

func percentOf(amount, base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	return amount.Div(base).Mul(hundred)
}

func volumeTriggered(rule strategy.DiscountRule, quantity decimal.Decimal) bool {
	return rule.VolumeMinQuantity != nil &&
		rule.VolumeDiscountPct.IsPositive() &&
		quantity.GreaterThanOrEqual(*rule.VolumeMinQuantity)
}

func expiryTriggered(rule strategy.DiscountRule, daysUntilExpiry *int) bool {
	return rule.ExpiryThresholdDays != nil &&
		daysUntilExpiry != nil &&
		rule.ExpiryDiscountPct.IsPositive() &&
		*daysUntilExpiry <= *rule.ExpiryThresholdDays
}

// orderRules sorts a copy of the rules by priority descending, then by ID
func orderRules(rules []strategy.DiscountRule) []strategy.DiscountRule {
	ordered := make([]strategy.DiscountRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority > ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})
	return ordered
}

func validatePricingContext(pricingCtx strategy.PricingContext) error {
	if !pricingCtx.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if pricingCtx.BasePrice.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	if adj := pricingCtx.Base; adj != nil {
		if adj.FixedPrice != nil && adj.FixedPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Custom price cannot be negative")
		}
		if !validPercent(adj.Percent) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Discount percentage must be between 0 and 100")
		}
	}
	for _, rule := range pricingCtx.Rules {
		if !validPercent(rule.VolumeDiscountPct) || !validPercent(rule.ExpiryDiscountPct) {
			return shared.NewDomainError("INVALID_DISCOUNT", "Rule discount percentage must be between 0 and 100")
		}
	}
	return nil
}

func validPercent(pct decimal.Decimal) bool {
	return !pct.IsNegative() && pct.LessThanOrEqual(hundred)
}
