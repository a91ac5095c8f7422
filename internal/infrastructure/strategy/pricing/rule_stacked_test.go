package pricing

import (
	"context"
	"testing"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v string) decimal.Decimal {
	return decimal.RequireFromString(v)
}

func decPtr(v string) *decimal.Decimal {
	d := dec(v)
	return &d
}

func intPtr(v int) *int {
	return &v
}

func TestRuleStackedPricingStrategy_CalculatePrice(t *testing.T) {
	s := NewRuleStackedPricingStrategy()
	ctx := context.Background()

	t.Run("no tier and no rules keeps the reference price", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("3"),
			BasePrice: dec("40"),
		})
		require.NoError(t, err)

		assert.True(t, result.UnitPrice.Equal(dec("40")))
		assert.True(t, result.LineTotal.Equal(dec("120")))
		assert.True(t, result.DiscountPercent.IsZero())
		assert.Empty(t, result.Discounts)
	})

	t.Run("tier midpoint discount", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("1"),
			BasePrice: dec("100"),
			Base: &strategy.BaseAdjustment{
				Source:  strategy.DiscountSourceTier,
				Name:    "Gold",
				Percent: dec("25"),
			},
		})
		require.NoError(t, err)

		assert.True(t, result.UnitPrice.Equal(dec("75")))
		assert.True(t, result.DiscountPercent.Equal(dec("25")))
		require.Len(t, result.Discounts, 1)
		assert.Equal(t, strategy.DiscountSourceTier, result.Discounts[0].Source)
		assert.True(t, result.Discounts[0].Amount.Equal(dec("25")))
	})

	t.Run("volume rule stacks on the discounted price", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("50"),
			BasePrice: dec("100"),
			Base: &strategy.BaseAdjustment{
				Source:  strategy.DiscountSourceTier,
				Name:    "Silver",
				Percent: dec("20"),
			},
			Rules: []strategy.DiscountRule{{
				ID:                "r1",
				Name:              "bulk-50",
				Priority:          10,
				VolumeMinQuantity: decPtr("50"),
				VolumeDiscountPct: dec("10"),
			}},
		})
		require.NoError(t, err)

		assert.True(t, result.UnitPrice.Equal(dec("72")), "got %s", result.UnitPrice)
		assert.True(t, result.DiscountAmount.Equal(dec("28")))
		assert.True(t, result.DiscountPercent.Equal(dec("28")))
		assert.True(t, result.LineTotal.Equal(dec("3600")))
		require.Len(t, result.Discounts, 2)
		assert.True(t, result.Discounts[1].Amount.Equal(dec("8")))
	})

	t.Run("volume rule below trigger is ignored", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("49"),
			BasePrice: dec("100"),
			Rules: []strategy.DiscountRule{{
				ID:                "r1",
				VolumeMinQuantity: decPtr("50"),
				VolumeDiscountPct: dec("10"),
			}},
		})
		require.NoError(t, err)
		assert.True(t, result.UnitPrice.Equal(dec("100")))
	})

	t.Run("expiry rule needs a batch within threshold", func(t *testing.T) {
		rule := strategy.DiscountRule{
			ID:                  "exp",
			Name:                "near-expiry",
			ExpiryThresholdDays: intPtr(3),
			ExpiryDiscountPct:   dec("20"),
		}

		withoutBatch, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("1"),
			BasePrice: dec("100"),
			Rules:     []strategy.DiscountRule{rule},
		})
		require.NoError(t, err)
		assert.True(t, withoutBatch.UnitPrice.Equal(dec("100")))

		farBatch, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:        dec("1"),
			BasePrice:       dec("100"),
			Rules:           []strategy.DiscountRule{rule},
			DaysUntilExpiry: intPtr(20),
		})
		require.NoError(t, err)
		assert.True(t, farBatch.UnitPrice.Equal(dec("100")))

		nearBatch, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:        dec("1"),
			BasePrice:       dec("100"),
			Rules:           []strategy.DiscountRule{rule},
			DaysUntilExpiry: intPtr(3),
		})
		require.NoError(t, err)
		assert.True(t, nearBatch.UnitPrice.Equal(dec("80")))
		assert.Equal(t, strategy.DiscountSourceExpiryRule, nearBatch.Discounts[0].Source)
	})

	t.Run("rules apply in descending priority", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:        dec("10"),
			BasePrice:       dec("200"),
			DaysUntilExpiry: intPtr(1),
			Rules: []strategy.DiscountRule{
				{ID: "low", Name: "low", Priority: 1, VolumeMinQuantity: decPtr("5"), VolumeDiscountPct: dec("10")},
				{ID: "high", Name: "high", Priority: 100, ExpiryThresholdDays: intPtr(2), ExpiryDiscountPct: dec("50")},
			},
		})
		require.NoError(t, err)

		require.Len(t, result.Discounts, 2)
		assert.Equal(t, "high", result.Discounts[0].Name)
		assert.True(t, result.Discounts[0].Amount.Equal(dec("100")))
		assert.Equal(t, "low", result.Discounts[1].Name)
		assert.True(t, result.Discounts[1].Amount.Equal(dec("10")))
		assert.True(t, result.UnitPrice.Equal(dec("90")))
	})

	t.Run("custom price replaces the base before rules", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("10"),
			BasePrice: dec("100"),
			Base: &strategy.BaseAdjustment{
				Source:     strategy.DiscountSourceCustomPrice,
				Name:       "contract",
				FixedPrice: decPtr("60"),
			},
			Rules: []strategy.DiscountRule{
				{ID: "v", Name: "v", VolumeMinQuantity: decPtr("10"), VolumeDiscountPct: dec("5")},
			},
		})
		require.NoError(t, err)

		assert.True(t, result.UnitPrice.Equal(dec("57")))
		assert.True(t, result.DiscountPercent.Equal(dec("43")))
	})

	t.Run("zero base price reports zero percent", func(t *testing.T) {
		result, err := s.CalculatePrice(ctx, strategy.PricingContext{
			Quantity:  dec("1"),
			BasePrice: decimal.Zero,
			Base:      &strategy.BaseAdjustment{Source: strategy.DiscountSourceTier, Percent: dec("10")},
		})
		require.NoError(t, err)
		assert.True(t, result.UnitPrice.IsZero())
		assert.True(t, result.DiscountPercent.IsZero())
	})
}

func TestRuleStackedPricingStrategy_Validation(t *testing.T) {
	s := NewRuleStackedPricingStrategy()
	ctx := context.Background()

	tests := []struct {
		name string
		pc   strategy.PricingContext
	}{
		{"zero quantity", strategy.PricingContext{Quantity: decimal.Zero, BasePrice: dec("1")}},
		{"negative base", strategy.PricingContext{Quantity: dec("1"), BasePrice: dec("-1")}},
		{"tier over 100", strategy.PricingContext{Quantity: dec("1"), BasePrice: dec("1"),
			Base: &strategy.BaseAdjustment{Percent: dec("101")}}},
		{"negative rule pct", strategy.PricingContext{Quantity: dec("1"), BasePrice: dec("1"),
			Rules: []strategy.DiscountRule{{VolumeDiscountPct: dec("-5")}}}},
		{"negative custom price", strategy.PricingContext{Quantity: dec("1"), BasePrice: dec("1"),
			Base: &strategy.BaseAdjustment{FixedPrice: decPtr("-2")}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CalculatePrice(ctx, tt.pc)
			require.Error(t, err)
			assert.True(t, shared.IsValidationError(err))
		})
	}
}
