package cache

import (
	"context"
	"sync"
	"time"

	apppricing "github.com/freshchain/scms/internal/application/pricing"
	"github.com/freshchain/scms/internal/domain/pricing"
)

type cacheEntry[T any] struct {
	value     []T
	expiresAt time.Time
}

func (e *cacheEntry[T]) isExpired(now time.Time) bool {
	return e == nil || !now.Before(e.expiresAt)
}

// InMemoryPricingCache is the single-instance pricing cache used when Redis is disabled
type InMemoryPricingCache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	tiers *cacheEntry[pricing.PricingTier]
	rules *cacheEntry[pricing.PricingRule]
}

// NewInMemoryPricingCache creates an empty cache whose entries live for ttl
func NewInMemoryPricingCache(ttl time.Duration) *InMemoryPricingCache {
	if ttl <= 0 {
		ttl = defaultPricingTTL
	}
	return &InMemoryPricingCache{ttl: ttl, now: time.Now}
}

// GetTiers returns the cached tiers
func (c *InMemoryPricingCache) GetTiers(_ context.Context) ([]pricing.PricingTier, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tiers.isExpired(c.now()) {
		return nil, false
	}
	return append([]pricing.PricingTier(nil), c.tiers.value...), true
}

// SetTiers stores a copy of tiers
func (c *InMemoryPricingCache) SetTiers(_ context.Context, tiers []pricing.PricingTier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tiers = &cacheEntry[pricing.PricingTier]{
		value:     append([]pricing.PricingTier(nil), tiers...),
		expiresAt: c.now().Add(c.ttl),
	}
}

// GetRules returns the cached active rules
func (c *InMemoryPricingCache) GetRules(_ context.Context) ([]pricing.PricingRule, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.rules.isExpired(c.now()) {
		return nil, false
	}
	return append([]pricing.PricingRule(nil), c.rules.value...), true
}

// SetRules stores a copy of rules
func (c *InMemoryPricingCache) SetRules(_ context.Context, rules []pricing.PricingRule) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = &cacheEntry[pricing.PricingRule]{
		value:     append([]pricing.PricingRule(nil), rules...),
		expiresAt: c.now().Add(c.ttl),
	}
}

// InvalidateRules drops the active-rule snapshot
func (c *InMemoryPricingCache) InvalidateRules(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rules = nil
}

var _ apppricing.SnapshotCache = (*InMemoryPricingCache)(nil)
