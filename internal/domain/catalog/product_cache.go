package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ProductCache caches product lookups to keep hot read paths off the
// database. A nil product with a nil error means a cache miss.
type ProductCache interface {
	// Get retrieves a cached product, or nil on a miss
	Get(ctx context.Context, tenantID, productID uuid.UUID) (*Product, error)

	// Set stores a product with the given TTL (0 means the default TTL)
	Set(ctx context.Context, product *Product, ttl time.Duration) error

	// Delete removes a product from the cache
	Delete(ctx context.Context, tenantID, productID uuid.UUID) error

	// InvalidateTenant removes all cached products for a tenant
	InvalidateTenant(ctx context.Context, tenantID uuid.UUID) error

	// Close releases any resources held by the cache
	Close() error
}

// CacheConfig holds product cache tuning parameters
type CacheConfig struct {
	// ProductTTL is the shared (L2) cache TTL for products
	ProductTTL time.Duration

	// L1TTL is the local in-process cache TTL. It is deliberately
	// short so stale reads are bounded across instances
	L1TTL time.Duration
}

// DefaultCacheConfig returns the default product cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		ProductTTL: 5 * time.Minute,
		L1TTL:      30 * time.Second,
	}
}
