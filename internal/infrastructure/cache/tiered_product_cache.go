package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// TieredProductCache implements a two-tier caching strategy.
// L1: Local in-memory cache (fast, but local to instance)
// L2: Redis cache (slower, but shared across instances)
// The L1 TTL is kept short so cross-instance staleness stays bounded
type TieredProductCache struct {
	l1Cache *InMemoryProductCache
	l2Cache *RedisProductCache
	config  catalog.CacheConfig
	logger  *zap.Logger

	// Stats for monitoring
	l1Hits   int64
	l1Misses int64
	l2Hits   int64
	l2Misses int64
}

// TieredProductCacheOption is a functional option for configuring the cache
type TieredProductCacheOption func(*TieredProductCache)

// WithTieredConfig sets the cache configuration
func WithTieredConfig(config catalog.CacheConfig) TieredProductCacheOption {
	return func(c *TieredProductCache) {
		c.config = config
	}
}

// WithTieredLogger sets the logger for the cache
func WithTieredLogger(logger *zap.Logger) TieredProductCacheOption {
	return func(c *TieredProductCache) {
		c.logger = logger
	}
}

// NewTieredProductCache creates a new tiered product cache
func NewTieredProductCache(
	l1Cache *InMemoryProductCache,
	l2Cache *RedisProductCache,
	opts ...TieredProductCacheOption,
) *TieredProductCache {
	cache := &TieredProductCache{
		l1Cache: l1Cache,
		l2Cache: l2Cache,
		config:  catalog.DefaultCacheConfig(),
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// Get retrieves a product from cache (L1 -> L2)
func (c *TieredProductCache) Get(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.Product, error) {
	// Try L1 first
	product, err := c.l1Cache.Get(ctx, tenantID, productID)
	if err != nil {
		c.logger.Warn("L1 cache error", zap.String("product_id", productID.String()), zap.Error(err))
	}
	if product != nil {
		atomic.AddInt64(&c.l1Hits, 1)
		return product, nil
	}
	atomic.AddInt64(&c.l1Misses, 1)

	// Try L2
	product, err = c.l2Cache.Get(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if product != nil {
		atomic.AddInt64(&c.l2Hits, 1)
		// Populate L1 cache
		if err := c.l1Cache.Set(ctx, product, c.config.L1TTL); err != nil {
			c.logger.Warn("Failed to populate L1 cache",
				zap.String("product_id", productID.String()), zap.Error(err))
		}
		return product, nil
	}
	atomic.AddInt64(&c.l2Misses, 1)

	return nil, nil
}

// Set stores a product in both cache tiers
func (c *TieredProductCache) Set(ctx context.Context, product *catalog.Product, ttl time.Duration) error {
	// Set in L2
	if err := c.l2Cache.Set(ctx, product, ttl); err != nil {
		return err
	}

	// Also set in L1 for immediate local access
	if err := c.l1Cache.Set(ctx, product, c.config.L1TTL); err != nil {
		c.logger.Warn("Failed to set L1 cache",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}

	return nil
}

// Delete removes a product from both cache tiers
func (c *TieredProductCache) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	// Delete from L2
	if err := c.l2Cache.Delete(ctx, tenantID, productID); err != nil {
		return err
	}

	// Delete from L1
	if err := c.l1Cache.Delete(ctx, tenantID, productID); err != nil {
		c.logger.Warn("Failed to delete from L1 cache",
			zap.String("product_id", productID.String()), zap.Error(err))
	}

	return nil
}

// InvalidateTenant removes all cached products for a tenant from both tiers
func (c *TieredProductCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	// Invalidate L2
	if err := c.l2Cache.InvalidateTenant(ctx, tenantID); err != nil {
		return err
	}

	// Invalidate L1
	if err := c.l1Cache.InvalidateTenant(ctx, tenantID); err != nil {
		c.logger.Warn("Failed to invalidate L1 cache", zap.Error(err))
	}

	return nil
}

// Close releases any resources held by the cache
func (c *TieredProductCache) Close() error {
	var lastErr error

	if err := c.l2Cache.Close(); err != nil {
		lastErr = err
	}

	if err := c.l1Cache.Close(); err != nil {
		lastErr = err
	}

	return lastErr
}

// CacheStats is a snapshot of tiered cache statistics
type CacheStats struct {
	L1Hits       int64   `json:"l1_hits"`
	L1Misses     int64   `json:"l1_misses"`
	L2Hits       int64   `json:"l2_hits"`
	L2Misses     int64   `json:"l2_misses"`
	TotalHits    int64   `json:"total_hits"`
	TotalMisses  int64   `json:"total_misses"`
	HitRatio     float64 `json:"hit_ratio"`
	CacheEntries int64   `json:"cache_entries"`
}

// GetCacheStats returns statistics about cache hits and misses
func (c *TieredProductCache) GetCacheStats() CacheStats {
	l1Hits := atomic.LoadInt64(&c.l1Hits)
	l1Misses := atomic.LoadInt64(&c.l1Misses)
	l2Hits := atomic.LoadInt64(&c.l2Hits)
	l2Misses := atomic.LoadInt64(&c.l2Misses)

	totalHits := l1Hits + l2Hits
	totalMisses := l2Misses // Only count final misses

	var hitRatio float64
	totalRequests := totalHits + totalMisses
	if totalRequests > 0 {
		hitRatio = float64(totalHits) / float64(totalRequests)
	}

	return CacheStats{
		L1Hits:       l1Hits,
		L1Misses:     l1Misses,
		L2Hits:       l2Hits,
		L2Misses:     l2Misses,
		TotalHits:    totalHits,
		TotalMisses:  totalMisses,
		HitRatio:     hitRatio,
		CacheEntries: int64(c.l1Cache.Count()),
	}
}

// ResetStats resets the cache statistics
func (c *TieredProductCache) ResetStats() {
	atomic.StoreInt64(&c.l1Hits, 0)
	atomic.StoreInt64(&c.l1Misses, 0)
	atomic.StoreInt64(&c.l2Hits, 0)
	atomic.StoreInt64(&c.l2Misses, 0)
	c.l1Cache.ResetStats()
}

// Ensure TieredProductCache implements ProductCache
var _ catalog.ProductCache = (*TieredProductCache)(nil)
