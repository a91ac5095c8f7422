package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apppricing "github.com/freshchain/scms/internal/application/pricing"
	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	defaultKeyPrefix  = "scms:pricing:"
	defaultPricingTTL = 5 * time.Minute
	tiersKey          = "tiers"
	rulesKey          = "rules:active"
)

// RedisPricingCache keeps tier and active-rule snapshots in Redis so every
// engine instance shares them. Cache failures are logged and treated as misses.
type RedisPricingCache struct {
	client    redis.UniversalClient
	keyPrefix string
	ttl       time.Duration
	logger    *zap.Logger
}

// NewRedisPricingCache creates a cache on an existing client
func NewRedisPricingCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger) *RedisPricingCache {
	if ttl <= 0 {
		ttl = defaultPricingTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisPricingCache{
		client:    client,
		keyPrefix: defaultKeyPrefix,
		ttl:       ttl,
		logger:    logger.Named("pricing_cache"),
	}
}

// GetTiers returns the cached tiers
func (c *RedisPricingCache) GetTiers(ctx context.Context) ([]pricing.PricingTier, bool) {
	var tiers []pricing.PricingTier
	return tiers, c.get(ctx, tiersKey, &tiers)
}

// SetTiers stores the tiers for the configured TTL
func (c *RedisPricingCache) SetTiers(ctx context.Context, tiers []pricing.PricingTier) {
	c.set(ctx, tiersKey, tiers)
}

// GetRules returns the cached active rules
func (c *RedisPricingCache) GetRules(ctx context.Context) ([]pricing.PricingRule, bool) {
	var rules []pricing.PricingRule
	return rules, c.get(ctx, rulesKey, &rules)
}

// SetRules stores the active rules for the configured TTL
func (c *RedisPricingCache) SetRules(ctx context.Context, rules []pricing.PricingRule) {
	c.set(ctx, rulesKey, rules)
}

// InvalidateRules drops the active-rule snapshot
func (c *RedisPricingCache) InvalidateRules(ctx context.Context) {
	if err := c.client.Del(ctx, c.keyPrefix+rulesKey).Err(); err != nil {
		c.logger.Warn("Failed to invalidate pricing rules", zap.Error(err))
	}
}

func (c *RedisPricingCache) get(ctx context.Context, key string, dest any) bool {
	data, err := c.client.Get(ctx, c.keyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Pricing cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.logger.Warn("Discarding corrupt pricing cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *RedisPricingCache) set(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("Failed to encode pricing cache entry", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, c.keyPrefix+key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("Pricing cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// Ping checks the Redis connection
func (c *RedisPricingCache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

var _ apppricing.SnapshotCache = (*RedisPricingCache)(nil)
