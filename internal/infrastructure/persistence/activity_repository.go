package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormActivityRepository implements ActivityRepository using GORM. The
// journal is append-only; there is deliberately no update or delete.
type GormActivityRepository struct {
	db *gorm.DB
}

// NewGormActivityRepository creates a new GormActivityRepository
func NewGormActivityRepository(db *gorm.DB) *GormActivityRepository {
	return &GormActivityRepository{db: db}
}

// FindByID finds an activity by its ID
func (r *GormActivityRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Activity, error) {
	var activity inventory.Activity
	if err := r.db.WithContext(ctx).First(&activity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindByIDForTenant finds an activity by ID within a tenant
func (r *GormActivityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*inventory.Activity, error) {
	var activity inventory.Activity
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&activity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// FindByInventoryItem finds activities that touched a lot, either as
// the subject entity or inside the consumed materials payload
func (r *GormActivityRepository) FindByInventoryItem(ctx context.Context, tenantID, itemID uuid.UUID, filter shared.Filter) ([]inventory.Activity, error) {
	var activities []inventory.Activity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Activity{}).
			Where("tenant_id = ?", tenantID).
			Where("(entity_type = ? AND entity_id = ?) OR materials_consumed @> ?",
				"inventory_item", itemID, materialsContainsItem(itemID)),
		filter,
	)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// materialsContainsItem builds the jsonb containment probe for one lot
func materialsContainsItem(itemID uuid.UUID) string {
	return `[{"inventory_item_id":"` + itemID.String() + `"}]`
}

// FindByBatch finds activities recorded against a cultivation batch
func (r *GormActivityRepository) FindByBatch(ctx context.Context, tenantID, batchID uuid.UUID, filter shared.Filter) ([]inventory.Activity, error) {
	var activities []inventory.Activity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Activity{}).
			Where("tenant_id = ? AND batch_id = ?", tenantID, batchID),
		filter,
	)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByType finds activities of a type
func (r *GormActivityRepository) FindByType(ctx context.Context, tenantID uuid.UUID, activityType inventory.ActivityType, filter shared.Filter) ([]inventory.Activity, error) {
	var activities []inventory.Activity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Activity{}).
			Where("tenant_id = ? AND activity_type = ?", tenantID, activityType),
		filter,
	)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindByDateRange finds activities within a date range
func (r *GormActivityRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, start, end time.Time, filter shared.Filter) ([]inventory.Activity, error) {
	var activities []inventory.Activity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Activity{}).
			Where("tenant_id = ? AND performed_at >= ? AND performed_at <= ?", tenantID, start, end),
		filter,
	)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// FindForTenant finds all activities for a tenant
func (r *GormActivityRepository) FindForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.Activity, error) {
	var activities []inventory.Activity
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&inventory.Activity{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&activities).Error; err != nil {
		return nil, err
	}
	return activities, nil
}

// Create appends an activity to the journal
func (r *GormActivityRepository) Create(ctx context.Context, activity *inventory.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// CountForTenant counts activities matching the filter
func (r *GormActivityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&inventory.Activity{}).Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "activity_type":
			query = query.Where("activity_type = ?", value)
		case "entity_id":
			query = query.Where("entity_id = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		}
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies pagination and ordering
func (r *GormActivityRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("performed_at DESC")
	}
	return query
}

// Ensure GormActivityRepository implements ActivityRepository
var _ inventory.ActivityRepository = (*GormActivityRepository)(nil)
