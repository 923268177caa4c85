package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
)

// ProductReader is the read-only lookup contract the movement ledger
// depends on. Implementations may serve from cache.
type ProductReader interface {
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
}

// ProductRepository is the full persistence contract for catalog
// management. All tenant-scoped queries filter by tenant ID; FindByID
// exists for cross-tenant administrative lookups.
type ProductRepository interface {
	ProductReader

	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*Product, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, error)
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category ProductCategory, filter shared.Filter) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
}
