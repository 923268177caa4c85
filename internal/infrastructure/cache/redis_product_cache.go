package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
)

// RedisProductCache implements ProductCache using Redis
type RedisProductCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	config     catalog.CacheConfig
	logger     *zap.Logger
}

// RedisProductCacheOption is a functional option for configuring the cache
type RedisProductCacheOption func(*RedisProductCache)

// WithCacheConfig sets the cache configuration
func WithCacheConfig(config catalog.CacheConfig) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		c.config = config
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisProductCacheOption {
	return func(c *RedisProductCache) {
		c.logger = logger
	}
}

// NewRedisProductCache creates a new Redis-based product cache
func NewRedisProductCache(cfg RedisConfig, opts ...RedisProductCacheOption) (*RedisProductCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisProductCache{
		client:     client,
		ownsClient: true,
		config:     catalog.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisProductCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisProductCacheWithClient(client *redis.Client, opts ...RedisProductCacheOption) *RedisProductCache {
	cache := &RedisProductCache{
		client:     client,
		ownsClient: false,
		config:     catalog.DefaultCacheConfig(),
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

// productCacheKey generates the cache key for a product
func (c *RedisProductCache) productCacheKey(tenantID, productID uuid.UUID) string {
	return fmt.Sprintf("product:%s:%s", tenantID.String(), productID.String())
}

// tenantScanPattern matches all product keys for a tenant
func (c *RedisProductCache) tenantScanPattern(tenantID uuid.UUID) string {
	return fmt.Sprintf("product:%s:*", tenantID.String())
}

// Get retrieves a product from cache
func (c *RedisProductCache) Get(ctx context.Context, tenantID, productID uuid.UUID) (*catalog.Product, error) {
	cacheKey := c.productCacheKey(tenantID, productID)

	data, err := c.client.Get(ctx, cacheKey).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for product", zap.String("product_id", productID.String()))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get product from cache",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get product from cache: %w", err)
	}

	var product catalog.Product
	if err := json.Unmarshal(data, &product); err != nil {
		c.logger.Error("Failed to unmarshal cached product",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, cacheKey)
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}

	c.logger.Debug("Cache hit for product", zap.String("product_id", productID.String()))
	return &product, nil
}

// Set stores a product in cache
func (c *RedisProductCache) Set(ctx context.Context, product *catalog.Product, ttl time.Duration) error {
	if product == nil {
		return nil
	}

	if ttl == 0 {
		ttl = c.config.ProductTTL
	}

	cacheKey := c.productCacheKey(product.TenantID, product.ID)

	data, err := json.Marshal(product)
	if err != nil {
		c.logger.Error("Failed to marshal product",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to marshal product: %w", err)
	}

	if err := c.client.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
		c.logger.Error("Failed to set product in cache",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to set product in cache: %w", err)
	}

	c.logger.Debug("Cached product",
		zap.String("product_id", product.ID.String()),
		zap.Duration("ttl", ttl))
	return nil
}

// Delete removes a product from cache
func (c *RedisProductCache) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	cacheKey := c.productCacheKey(tenantID, productID)

	if err := c.client.Del(ctx, cacheKey).Err(); err != nil {
		c.logger.Error("Failed to delete product from cache",
			zap.String("product_id", productID.String()),
			zap.Error(err))
		return fmt.Errorf("failed to delete product from cache: %w", err)
	}

	c.logger.Debug("Deleted product from cache", zap.String("product_id", productID.String()))
	return nil
}

// InvalidateTenant removes all cached products for a tenant.
// Uses SCAN to avoid blocking Redis with the KEYS command
func (c *RedisProductCache) InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error {
	var cursor uint64
	var deletedCount int64

	for {
		var keys []string
		var err error
		keys, cursor, err = c.client.Scan(ctx, cursor, c.tenantScanPattern(tenantID), defaultScanBatchSize).Result()
		if err != nil {
			c.logger.Error("Failed to scan product cache keys", zap.Error(err))
			return fmt.Errorf("failed to scan cache keys: %w", err)
		}

		if len(keys) > 0 {
			deleted, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				c.logger.Error("Failed to delete product cache keys", zap.Error(err))
				return fmt.Errorf("failed to delete cache keys: %w", err)
			}
			deletedCount += deleted
		}

		if cursor == 0 {
			break
		}
	}

	c.logger.Info("Invalidated product cache for tenant",
		zap.String("tenant_id", tenantID.String()),
		zap.Int64("deleted_count", deletedCount))
	return nil
}

// Close releases any resources held by the cache
func (c *RedisProductCache) Close() error {
	// Only close client if we own it
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// GetClient returns the underlying Redis client (for testing/monitoring)
func (c *RedisProductCache) GetClient() *redis.Client {
	return c.client
}

// Ensure RedisProductCache implements ProductCache
var _ catalog.ProductCache = (*RedisProductCache)(nil)
