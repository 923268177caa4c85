package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormProductRepository persists catalog products through GORM.
type GormProductRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// mapNotFound translates GORM's sentinel into the domain error so
// callers never import gorm.
func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	err := r.db.WithContext(ctx).Take(&p, "id = ?", id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	var p catalog.Product
	err := r.db.WithContext(ctx).
		Take(&p, "tenant_id = ? AND id = ?", tenantID, id).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

// FindBySKU looks a product up by its tenant-unique SKU. SKUs are
// stored uppercase, so the lookup normalizes before comparing.
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	var p catalog.Product
	err := r.db.WithContext(ctx).
		Take(&p, "tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(sku)).Error
	if err != nil {
		return nil, mapNotFound(err)
	}
	return &p, nil
}

func (r *GormProductRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.tenantQuery(ctx, tenantID).
		Scopes(productFilter(filter), paginate(filter), productOrder(filter)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category catalog.ProductCategory, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	err := r.tenantQuery(ctx, tenantID).
		Where("category = ?", category).
		Scopes(productFilter(filter), paginate(filter), productOrder(filter)).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var n int64
	err := r.tenantQuery(ctx, tenantID).
		Scopes(productFilter(filter)).
		Count(&n).Error
	return n, err
}

func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(sku)).
		Count(&n).Error
	return n > 0, err
}

func (r *GormProductRepository) tenantQuery(ctx context.Context, tenantID uuid.UUID) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("tenant_id = ?", tenantID)
}

// productFilter narrows the query by free-text search and the
// recognized keyed filters. Unknown keys are ignored.
func productFilter(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.Search != "" {
			like := "%" + filter.Search + "%"
			q = q.Where("name ILIKE ? OR sku ILIKE ?", like, like)
		}
		if category, ok := filter.Filters["category"]; ok {
			q = q.Where("category = ?", category)
		}
		if status, ok := filter.Filters["status"]; ok {
			q = q.Where("status = ?", status)
		}
		return q
	}
}

func productOrder(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.OrderBy == "" {
			return q.Order("name ASC")
		}
		dir := "ASC"
		if strings.EqualFold(filter.OrderDir, "desc") {
			dir = "DESC"
		}
		return q.Order(filter.OrderBy + " " + dir)
	}
}

func paginate(filter shared.Filter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if filter.Page <= 0 || filter.PageSize <= 0 {
			return q
		}
		return q.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
