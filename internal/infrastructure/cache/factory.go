package cache

import (
	"fmt"

	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/growops/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// IdempotencyStoreFactory picks an idempotency store implementation at
// startup. Redis is preferred so duplicate suppression spans instances;
// the in-memory store is a degraded single-process fallback.
type IdempotencyStoreFactory struct {
	redisConfig  config.RedisConfig
	logger       *zap.Logger
	requireRedis bool
}

type IdempotencyStoreFactoryOption func(*IdempotencyStoreFactory)

func WithLogger(logger *zap.Logger) IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.logger = logger
	}
}

// WithRequiredRedis makes CreateStore fail instead of falling back to
// the in-memory store when Redis cannot be reached.
func WithRequiredRedis() IdempotencyStoreFactoryOption {
	return func(f *IdempotencyStoreFactory) {
		f.requireRedis = true
	}
}

func NewIdempotencyStoreFactory(cfg config.RedisConfig, opts ...IdempotencyStoreFactoryOption) *IdempotencyStoreFactory {
	f := &IdempotencyStoreFactory{
		redisConfig: cfg,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateStore connects to Redis and returns the shared store. When
// Redis is unreachable and not required, it logs a warning and returns
// the process-local store instead.
func (f *IdempotencyStoreFactory) CreateStore() (shared.IdempotencyStore, error) {
	store, err := NewRedisIdempotencyStore(redisOptions(f.redisConfig))
	if err == nil {
		f.logger.Info("using Redis idempotency store")
		return store, nil
	}
	if f.requireRedis {
		return nil, fmt.Errorf("redis idempotency store unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, using in-memory idempotency store; "+
		"duplicate events may be re-processed across instances",
		zap.Error(err),
	)
	return NewInMemoryIdempotencyStore(), nil
}

func redisOptions(cfg config.RedisConfig) RedisConfig {
	return RedisConfig{
		Host:     cfg.Host,
		Port:     cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewProductCache builds the product read cache. With Redis available
// it layers a local L1 in front of the shared L2; otherwise reads are
// served from the local cache alone.
func NewProductCache(cfg config.RedisConfig, cacheConfig catalog.CacheConfig, logger *zap.Logger) catalog.ProductCache {
	l1 := NewInMemoryProductCache(
		WithInMemoryConfig(cacheConfig),
		WithInMemoryLogger(logger),
	)

	l2, err := NewRedisProductCache(redisOptions(cfg),
		WithCacheConfig(cacheConfig), WithCacheLogger(logger))
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory product cache only; "+
			"cached products are not shared across instances",
			zap.Error(err),
		)
		return l1
	}

	logger.Info("using tiered product cache")
	return NewTieredProductCache(l1, l2,
		WithTieredConfig(cacheConfig),
		WithTieredLogger(logger),
	)
}
