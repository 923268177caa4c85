package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest creates a new product
type CreateProductRequest struct {
	SKU           string                  `json:"sku" binding:"required"`
	Name          string                  `json:"name" binding:"required"`
	Description   string                  `json:"description,omitempty"`
	Category      catalog.ProductCategory `json:"category" binding:"required"`
	Unit          string                  `json:"unit" binding:"required"`
	PurchasePrice *decimal.Decimal        `json:"purchasePrice,omitempty"`
}

// UpdateProductRequest updates a product's basic information
type UpdateProductRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description,omitempty"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice,omitempty"`
}

// ProductResponse is the read model for a product
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ToProductResponse maps a product to its read model
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            product.ID,
		SKU:           product.SKU,
		Name:          product.Name,
		Description:   product.Description,
		Category:      string(product.Category),
		Unit:          product.Unit,
		PurchasePrice: product.PurchasePrice,
		Status:        string(product.Status),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

// ProductListFilter narrows product listings
type ProductListFilter struct {
	Page     int
	PageSize int
	Search   string
	Category *catalog.ProductCategory
	OrderBy  string
	OrderDir string
}
