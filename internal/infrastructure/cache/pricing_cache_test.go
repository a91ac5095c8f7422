package cache

import (
	"context"
	"testing"
	"time"

	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/freshchain/scms/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

func sampleTiers(t *testing.T) []pricing.PricingTier {
	t.Helper()
	tier, err := pricing.NewPricingTier("Silver", decimal.NewFromInt(10), decimal.NewFromInt(20))
	require.NoError(t, err)
	return []pricing.PricingTier{*tier}
}

func sampleRules(t *testing.T) []pricing.PricingRule {
	t.Helper()
	rule, err := pricing.NewPricingRule("Bulk 100+", 10)
	require.NoError(t, err)
	productID := uuid.New()
	rule.ProductID = &productID
	return []pricing.PricingRule{*rule}
}

func TestInMemoryPricingCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryPricingCache(time.Minute)

	_, ok := c.GetTiers(ctx)
	assert.False(t, ok)
	_, ok = c.GetRules(ctx)
	assert.False(t, ok)

	tiers := sampleTiers(t)
	c.SetTiers(ctx, tiers)
	got, ok := c.GetTiers(ctx)
	require.True(t, ok)
	assert.Equal(t, tiers, got)

	c.SetRules(ctx, sampleRules(t))
	rules, ok := c.GetRules(ctx)
	require.True(t, ok)
	assert.Len(t, rules, 1)
}

func TestInMemoryPricingCache_EntriesExpire(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)
	c := NewInMemoryPricingCache(time.Minute)
	c.now = func() time.Time { return now }

	c.SetTiers(ctx, sampleTiers(t))
	now = now.Add(59 * time.Second)
	_, ok := c.GetTiers(ctx)
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok = c.GetTiers(ctx)
	assert.False(t, ok)
}

func TestInMemoryPricingCache_InvalidateRulesKeepsTiers(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryPricingCache(0)
	c.SetTiers(ctx, sampleTiers(t))
	c.SetRules(ctx, sampleRules(t))

	c.InvalidateRules(ctx)

	_, ok := c.GetRules(ctx)
	assert.False(t, ok)
	_, ok = c.GetTiers(ctx)
	assert.True(t, ok)
}

func TestInMemoryPricingCache_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryPricingCache(time.Minute)
	tiers := sampleTiers(t)
	c.SetTiers(ctx, tiers)
	tiers[0].Name = "mutated"

	got, ok := c.GetTiers(ctx)
	require.True(t, ok)
	assert.Equal(t, "Silver", got[0].Name)
}

func TestNewPricingCache_DisabledUsesMemory(t *testing.T) {
	c, closeFn := NewPricingCache(config.RedisConfig{Enabled: false, PricingTTL: time.Minute}, zap.NewNop())
	assert.IsType(t, &InMemoryPricingCache{}, c)
	assert.NoError(t, closeFn())
}

func TestNewPricingCache_UnreachableRedisFallsBack(t *testing.T) {
	c, closeFn := NewPricingCache(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: 1}, zap.NewNop())
	assert.IsType(t, &InMemoryPricingCache{}, c)
	assert.NoError(t, closeFn())
}

func TestRedisPricingCache_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping Redis integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("Docker unavailable: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: endpoint})
	t.Cleanup(func() { _ = client.Close() })

	c := NewRedisPricingCache(client, time.Minute, zap.NewNop())
	require.NoError(t, c.Ping(ctx))

	_, ok := c.GetTiers(ctx)
	assert.False(t, ok)

	tiers := sampleTiers(t)
	c.SetTiers(ctx, tiers)
	got, ok := c.GetTiers(ctx)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, tiers[0].ID, got[0].ID)
	assert.True(t, tiers[0].MaxDiscountPct.Equal(got[0].MaxDiscountPct))

	rules := sampleRules(t)
	c.SetRules(ctx, rules)
	gotRules, ok := c.GetRules(ctx)
	require.True(t, ok)
	assert.Equal(t, *rules[0].ProductID, *gotRules[0].ProductID)

	ttl, err := client.TTL(ctx, defaultKeyPrefix+rulesKey).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, 50*time.Second)

	c.InvalidateRules(ctx)
	_, ok = c.GetRules(ctx)
	assert.False(t, ok)

	require.NoError(t, client.Set(ctx, defaultKeyPrefix+tiersKey, "not json", time.Minute).Err())
	_, ok = c.GetTiers(ctx)
	assert.False(t, ok)
}
