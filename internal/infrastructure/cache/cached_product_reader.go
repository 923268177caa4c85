package cache

import (
	"context"

	"github.com/google/uuid"
	appcatalog "github.com/growops/backend/internal/application/catalog"
	"github.com/growops/backend/internal/domain/catalog"
	"go.uber.org/zap"
)

// CachedProductReader wraps a ProductReader with read-through caching.
// The ledger resolves a product on every movement, so this is the
// hottest read path in the system
type CachedProductReader struct {
	reader catalog.ProductReader
	cache  catalog.ProductCache
	config catalog.CacheConfig
	logger *zap.Logger
}

// NewCachedProductReader creates a caching decorator around a product reader
func NewCachedProductReader(
	reader catalog.ProductReader,
	productCache catalog.ProductCache,
	config catalog.CacheConfig,
	logger *zap.Logger,
) *CachedProductReader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProductReader{
		reader: reader,
		cache:  productCache,
		config: config,
		logger: logger,
	}
}

// FindByIDForTenant returns the product from cache, falling back to the
// underlying reader on a miss. Cache errors degrade to a direct read
func (r *CachedProductReader) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	product, err := r.cache.Get(ctx, tenantID, id)
	if err != nil {
		r.logger.Warn("product cache read failed, falling back to store",
			zap.String("product_id", id.String()),
			zap.Error(err))
	}
	if product != nil {
		return product, nil
	}

	product, err = r.reader.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if cacheErr := r.cache.Set(ctx, product, r.config.ProductTTL); cacheErr != nil {
		r.logger.Warn("failed to cache product",
			zap.String("product_id", id.String()),
			zap.Error(cacheErr))
	}

	return product, nil
}

// Invalidate removes one product from the cache after a write
func (r *CachedProductReader) Invalidate(ctx context.Context, tenantID, productID uuid.UUID) {
	if err := r.cache.Delete(ctx, tenantID, productID); err != nil {
		r.logger.Warn("failed to invalidate cached product",
			zap.String("product_id", productID.String()),
			zap.Error(err))
	}
}

// Ensure CachedProductReader implements the reader and invalidator ports
var _ catalog.ProductReader = (*CachedProductReader)(nil)
var _ appcatalog.ProductCacheInvalidator = (*CachedProductReader)(nil)
