package cultivation

import (
	"context"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
)

// BatchRepository defines the interface for batch persistence
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByIDForTenant finds a batch by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Batch, error)

	// FindByStatus finds batches with a status
	FindByStatus(ctx context.Context, tenantID uuid.UUID, status BatchStatus, filter shared.Filter) ([]Batch, error)

	// FindAllForTenant finds all batches for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Batch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *Batch) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, batch *Batch) error

	// CountForTenant counts batches matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// PlantRepository defines the interface for plant persistence
type PlantRepository interface {
	// FindByID finds a plant by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Plant, error)

	// FindByBatch finds all plants under a batch
	FindByBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]Plant, error)

	// FindAliveByBatch finds surviving plants under a batch
	FindAliveByBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]Plant, error)

	// Save creates or updates a plant
	Save(ctx context.Context, plant *Plant) error

	// SaveAll creates or updates multiple plants
	SaveAll(ctx context.Context, plants []*Plant) error

	// CountAliveByBatch counts surviving plants under a batch
	CountAliveByBatch(ctx context.Context, tenantID, batchID uuid.UUID) (int64, error)
}
