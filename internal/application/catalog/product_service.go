package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/shared"
)

// ProductCacheInvalidator drops cached product entries after writes.
// Implemented by the cache package; a nil invalidator is fine.
type ProductCacheInvalidator interface {
	// Invalidate removes one product from the cache
	Invalidate(ctx context.Context, tenantID, productID uuid.UUID)
}

// ProductService handles product catalog operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
	invalidator    ProductCacheInvalidator
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// SetEventPublisher sets the publisher for domain events
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetCacheInvalidator sets the cache invalidation hook
func (s *ProductService) SetCacheInvalidator(invalidator ProductCacheInvalidator) {
	s.invalidator = invalidator
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, tenantID, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("DUPLICATE_SKU", "A product with this SKU already exists")
	}

	product, err := catalog.NewProduct(tenantID, req.SKU, req.Name, req.Category, req.Unit)
	if err != nil {
		return nil, err
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.PurchasePrice != nil {
		if err := product.SetPurchasePrice(*req.PurchasePrice); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by its SKU
func (s *ProductService) GetBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, tenantID, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products matching the filter with pagination
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	var products []catalog.Product
	var err error
	if filter.Category != nil {
		products, err = s.productRepo.FindByCategory(ctx, tenantID, *filter.Category, domainFilter)
	} else {
		products, err = s.productRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, 0, len(products))
	for i := range products {
		responses = append(responses, ToProductResponse(&products[i]))
	}
	return responses, total, nil
}

// Update updates a product's basic information
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	if req.PurchasePrice != nil {
		if err := product.SetPurchasePrice(*req.PurchasePrice); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID, productID)
	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// Deactivate deactivates a product. Existing lots are unaffected;
// deactivation only stops new receipts.
func (s *ProductService) Deactivate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Deactivate)
}

// Activate activates a product
func (s *ProductService) Activate(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Activate)
}

// Discontinue discontinues a product permanently
func (s *ProductService) Discontinue(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	return s.changeStatus(ctx, tenantID, productID, (*catalog.Product).Discontinue)
}

func (s *ProductService) changeStatus(ctx context.Context, tenantID, productID uuid.UUID, change func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := change(product); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.invalidate(ctx, tenantID, productID)
	s.publishDomainEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) invalidate(ctx context.Context, tenantID, productID uuid.UUID) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, tenantID, productID)
	}
}

func (s *ProductService) publishDomainEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	events := product.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	product.ClearDomainEvents()
}

func (s *ProductService) toDomainFilter(filter ProductListFilter) shared.Filter {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "name"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "asc"
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}
}
