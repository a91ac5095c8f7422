package pricing

import (
	"testing"
	"time"

	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectOverride(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	retailerID := uuid.New()
	productID := uuid.New()
	otherProduct := uuid.New()

	general := NewRetailerPricing(retailerID, nil, now.Add(-48*time.Hour))
	specific := NewRetailerPricing(retailerID, &productID, now.Add(-24*time.Hour))
	otherSpecific := NewRetailerPricing(retailerID, &otherProduct, now.Add(-24*time.Hour))

	t.Run("product specific wins over general", func(t *testing.T) {
		got := SelectOverride([]RetailerPricing{*general, *specific, *otherSpecific}, productID, now)
		require.NotNil(t, got)
		assert.Equal(t, specific.ID, got.ID)
	})

	t.Run("falls back to general", func(t *testing.T) {
		got := SelectOverride([]RetailerPricing{*general, *otherSpecific}, productID, now)
		require.NotNil(t, got)
		assert.Equal(t, general.ID, got.ID)
	})

	t.Run("ignores overrides outside their window or inactive", func(t *testing.T) {
		expired := NewRetailerPricing(retailerID, &productID, now.Add(-72*time.Hour))
		end := now.Add(-time.Hour)
		require.NoError(t, expired.SetWindow(expired.EffectiveFrom, &end))
		future := NewRetailerPricing(retailerID, &productID, now.Add(time.Hour))
		inactive := NewRetailerPricing(retailerID, &productID, now.Add(-time.Hour))
		inactive.IsActive = false

		got := SelectOverride([]RetailerPricing{*expired, *future, *inactive, *general}, productID, now)
		require.NotNil(t, got)
		assert.Equal(t, general.ID, got.ID)
	})

	t.Run("nil when nothing applies", func(t *testing.T) {
		assert.Nil(t, SelectOverride(nil, productID, now))
	})
}

func TestResolveBaseAdjustment(t *testing.T) {
	tier, err := NewPricingTier("Gold", decimal.NewFromInt(20), decimal.NewFromInt(30))
	require.NoError(t, err)
	override := NewRetailerPricing(uuid.New(), nil, time.Time{})

	t.Run("tier midpoint without customisation", func(t *testing.T) {
		adj := ResolveBaseAdjustment(override, tier)
		require.NotNil(t, adj)
		assert.Equal(t, strategy.DiscountSourceTier, adj.Source)
		assert.Equal(t, "Gold", adj.Name)
		assert.True(t, adj.Percent.Equal(decimal.NewFromInt(25)))
	})

	t.Run("custom discount overrides the tier", func(t *testing.T) {
		o := *override
		pct := decimal.NewFromInt(12)
		require.NoError(t, o.SetCustomDiscount(&pct))

		adj := ResolveBaseAdjustment(&o, tier)
		assert.Equal(t, strategy.DiscountSourceCustomDiscount, adj.Source)
		assert.True(t, adj.Percent.Equal(pct))
	})

	t.Run("custom price overrides everything", func(t *testing.T) {
		o := *override
		pct := decimal.NewFromInt(12)
		price := decimal.NewFromInt(55)
		require.NoError(t, o.SetCustomDiscount(&pct))
		require.NoError(t, o.SetCustomPrice(&price))

		adj := ResolveBaseAdjustment(&o, tier)
		assert.Equal(t, strategy.DiscountSourceCustomPrice, adj.Source)
		require.NotNil(t, adj.FixedPrice)
		assert.True(t, adj.FixedPrice.Equal(price))
	})

	t.Run("no tier and no override means no adjustment", func(t *testing.T) {
		assert.Nil(t, ResolveBaseAdjustment(nil, nil))
	})

	t.Run("rejects custom discount outside range", func(t *testing.T) {
		o := *override
		pct := decimal.NewFromInt(120)
		assert.Error(t, o.SetCustomDiscount(&pct))
	})
}
