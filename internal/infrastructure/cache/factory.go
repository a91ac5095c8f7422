package cache

import (
	"context"
	"fmt"
	"time"

	apppricing "github.com/freshchain/scms/internal/application/pricing"
	"github.com/freshchain/scms/internal/infrastructure/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.Addr(), err)
	}
	return client, nil
}

// NewPricingCache returns the Redis cache when Redis is enabled and reachable,
// otherwise the in-memory cache. The returned close function is never nil.
func NewPricingCache(cfg config.RedisConfig, logger *zap.Logger) (apppricing.SnapshotCache, func() error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		logger.Info("Redis disabled, using in-memory pricing cache")
		return NewInMemoryPricingCache(cfg.PricingTTL), noop
	}

	client, err := NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, falling back to in-memory pricing cache. "+
			"Pricing snapshots will not be shared across instances.",
			zap.Error(err),
		)
		return NewInMemoryPricingCache(cfg.PricingTTL), noop
	}

	logger.Info("Using Redis pricing cache", zap.String("addr", cfg.Addr()), zap.Duration("ttl", cfg.PricingTTL))
	return NewRedisPricingCache(client, cfg.PricingTTL, logger), client.Close
}
