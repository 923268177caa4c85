package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/growops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*cultivation.Batch, error) {
	var batch cultivation.Batch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByIDForTenant finds a batch by ID within a tenant
func (r *GormBatchRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*cultivation.Batch, error) {
	var batch cultivation.Batch
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByStatus finds batches with a given status
func (r *GormBatchRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, status cultivation.BatchStatus, filter shared.Filter) ([]cultivation.Batch, error) {
	var batches []cultivation.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&cultivation.Batch{}).
			Where("tenant_id = ? AND status = ?", tenantID, status),
		filter,
	)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindAllForTenant finds all batches for a tenant
func (r *GormBatchRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]cultivation.Batch, error) {
	var batches []cultivation.Batch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&cultivation.Batch{}).
			Where("tenant_id = ?", tenantID),
		filter,
	)
	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *cultivation.Batch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormBatchRepository) SaveWithLock(ctx context.Context, batch *cultivation.Batch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(map[string]interface{}{
			"status":           batch.Status,
			"current_phase":    batch.CurrentPhase,
			"current_quantity": batch.CurrentQuantity,
			"lost_quantity":    batch.LostQuantity,
			"mortality_rate":   batch.MortalityRate,
			"harvest_date":     batch.HarvestDate,
			"version":          batch.Version,
			"updated_at":       batch.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// CountForTenant counts batches for a tenant
func (r *GormBatchRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&cultivation.Batch{}).Where("tenant_id = ?", tenantID)
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "area_id":
			query = query.Where("area_id = ?", value)
		}
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "area_id":
			query = query.Where("area_id = ?", value)
		case "current_phase":
			query = query.Where("current_phase = ?", value)
		}
	}

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
		query = query.Order("start_date DESC")
	}
	return query
}

// Ensure GormBatchRepository implements BatchRepository
var _ cultivation.BatchRepository = (*GormBatchRepository)(nil)

// GormPlantRepository implements PlantRepository using GORM
type GormPlantRepository struct {
	db *gorm.DB
}

// NewGormPlantRepository creates a new GormPlantRepository
func NewGormPlantRepository(db *gorm.DB) *GormPlantRepository {
	return &GormPlantRepository{db: db}
}

// FindByID finds a plant by its ID
func (r *GormPlantRepository) FindByID(ctx context.Context, id uuid.UUID) (*cultivation.Plant, error) {
	var plant cultivation.Plant
	if err := r.db.WithContext(ctx).First(&plant, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &plant, nil
}

// FindByBatch finds all plants of a batch
func (r *GormPlantRepository) FindByBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]cultivation.Plant, error) {
	var plants []cultivation.Plant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND batch_id = ?", tenantID, batchID).
		Order("tag ASC").
		Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

// FindAliveByBatch finds the living plants of a batch
func (r *GormPlantRepository) FindAliveByBatch(ctx context.Context, tenantID, batchID uuid.UUID) ([]cultivation.Plant, error) {
	var plants []cultivation.Plant
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND batch_id = ? AND status = ?", tenantID, batchID, cultivation.PlantStatusAlive).
		Order("tag ASC").
		Find(&plants).Error; err != nil {
		return nil, err
	}
	return plants, nil
}

// Save creates or updates a plant
func (r *GormPlantRepository) Save(ctx context.Context, plant *cultivation.Plant) error {
	return r.db.WithContext(ctx).Save(plant).Error
}

// SaveAll creates or updates plants in one statement batch
func (r *GormPlantRepository) SaveAll(ctx context.Context, plants []*cultivation.Plant) error {
	if len(plants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(plants).Error
}

// CountAliveByBatch counts the living plants of a batch
func (r *GormPlantRepository) CountAliveByBatch(ctx context.Context, tenantID, batchID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&cultivation.Plant{}).
		Where("tenant_id = ? AND batch_id = ? AND status = ?", tenantID, batchID, cultivation.PlantStatusAlive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Ensure GormPlantRepository implements PlantRepository
var _ cultivation.PlantRepository = (*GormPlantRepository)(nil)
