package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InventoryItemRepository defines the interface for lot persistence
type InventoryItemRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryItem, error)

	// FindByIDForTenant finds a lot by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*InventoryItem, error)

	// FindAvailableForConsumption finds consumable lots of a product at a
	// facility, ordered by received date ascending (FIFO order)
	FindAvailableForConsumption(ctx context.Context, tenantID, facilityID, productID uuid.UUID) ([]*InventoryItem, error)

	// FindMergeTarget finds an active lot with the same product, area,
	// batch number and status that a transfer can merge into
	FindMergeTarget(ctx context.Context, tenantID, areaID, productID uuid.UUID, batchNumber string) (*InventoryItem, error)

	// FindByProduct finds all lots for a product
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindByArea finds all lots in an area
	FindByArea(ctx context.Context, tenantID, areaID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindBySourceBatch finds lots produced by a cultivation batch
	FindBySourceBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]InventoryItem, error)

	// FindAllForTenant finds all lots for a tenant
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]InventoryItem, error)

	// FindExpiring finds lots whose expiration date falls before the cutoff
	FindExpiring(ctx context.Context, tenantID uuid.UUID, cutoff time.Time, filter shared.Filter) ([]InventoryItem, error)

	// Save creates or updates a lot
	Save(ctx context.Context, item *InventoryItem) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, item *InventoryItem) error

	// CountForTenant counts lots matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)

	// SumQuantityByProduct sums available quantity for a product across lots
	SumQuantityByProduct(ctx context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error)
}

// ActivityRepository defines the interface for the append-only
// activity journal. There is no update or delete; corrections are new
// activities.
type ActivityRepository interface {
	// FindByID finds an activity by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Activity, error)

	// FindByIDForTenant finds an activity by ID within a tenant
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Activity, error)

	// FindByInventoryItem finds activities that touched a lot, newest first
	FindByInventoryItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]Activity, error)

	// FindByBatch finds activities recorded against a cultivation batch
	FindByBatch(ctx context.Context, tenantID, batchID uuid.UUID, filter shared.Filter) ([]Activity, error)

	// FindByType finds activities of a type
	FindByType(ctx context.Context, tenantID uuid.UUID, activityType ActivityType, filter shared.Filter) ([]Activity, error)

	// FindByDateRange finds activities within a date range
	FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]Activity, error)

	// FindForTenant finds all activities for a tenant
	FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Activity, error)

	// Create appends a new activity
	Create(ctx context.Context, activity *Activity) error

	// CountForTenant counts activities matching the filter
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// ItemFilter extends shared.Filter with lot-specific filters
type ItemFilter struct {
	shared.Filter
	ProductID     *uuid.UUID
	FacilityID    *uuid.UUID
	AreaID        *uuid.UUID
	LotStatus     *LotStatus
	SourceType    *SourceType
	HasStock      bool
	IncludeFrozen bool // Include transformed/harvested lots
}

// ActivityFilter extends shared.Filter with activity-specific filters
type ActivityFilter struct {
	shared.Filter
	ActivityType *ActivityType
	FacilityID   *uuid.UUID
	AreaID       *uuid.UUID
	BatchID      *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
}
