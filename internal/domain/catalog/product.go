// Package catalog holds the product aggregate. Products define the
// identity, unit, and category that inventory lots and movements
// reference; the ledger itself never edits them.
package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus is the catalog lifecycle state.
type ProductStatus string

const (
	ProductStatusActive       ProductStatus = "active"
	ProductStatusInactive     ProductStatus = "inactive"
	ProductStatusDiscontinued ProductStatus = "discontinued"
)

// ProductCategory classifies a product within the production chain.
// Categories drive internal lot number prefixes and make
// transformation targets meaningful (seed/clone -> seedling -> plant
// -> plant_material).
type ProductCategory string

const (
	CategorySeed          ProductCategory = "seed"
	CategoryClone         ProductCategory = "clone"
	CategorySeedling      ProductCategory = "seedling"
	CategoryPlant         ProductCategory = "plant"
	CategoryPlantMaterial ProductCategory = "plant_material"
	CategoryNutrient      ProductCategory = "nutrient"
	CategorySupply        ProductCategory = "supply"
)

func (c ProductCategory) IsValid() bool {
	switch c {
	case CategorySeed, CategoryClone, CategorySeedling, CategoryPlant,
		CategoryPlantMaterial, CategoryNutrient, CategorySupply:
		return true
	}
	return false
}

func (c ProductCategory) String() string { return string(c) }

// IsLiving reports whether the category represents growing material
// as opposed to consumables and supplies.
func (c ProductCategory) IsLiving() bool {
	switch c {
	case CategorySeed, CategoryClone, CategorySeedling, CategoryPlant:
		return true
	}
	return false
}

func AllProductCategories() []ProductCategory {
	return []ProductCategory{
		CategorySeed,
		CategoryClone,
		CategorySeedling,
		CategoryPlant,
		CategoryPlantMaterial,
		CategoryNutrient,
		CategorySupply,
	}
}

// Product is a catalog entry keyed by tenant-unique SKU. It is the
// aggregate root for catalog operations and a read-only collaborator
// of the movement ledger.
type Product struct {
	shared.TenantAggregateRoot
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_tenant_sku,priority:2"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Description   string          `gorm:"type:text"`
	Category      ProductCategory `gorm:"type:varchar(30);not null;index"`
	Unit          string          `gorm:"type:varchar(20);not null"`             // base unit, e.g. "unit", "g", "kg", "ml"
	PurchasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // reference cost
	Status        ProductStatus   `gorm:"type:varchar(20);not null;default:'active'"`
}

func (Product) TableName() string {
	return "products"
}

// NewProduct validates the fields and returns an active product with
// its SKU normalized to uppercase.
func NewProduct(tenantID uuid.UUID, sku, name string, category ProductCategory, unit string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Unknown product category")
	}
	if err := validateUnit(unit); err != nil {
		return nil, err
	}

	product := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(sku),
		Name:                name,
		Category:            category,
		Unit:                unit,
		PurchasePrice:       decimal.Zero,
		Status:              ProductStatusActive,
	}
	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

// Update edits the descriptive fields. SKU, category, and unit are
// fixed for the life of the product because lots and movements
// reference them.
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.touch()
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

func (p *Product) SetPurchasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Purchase price cannot be negative")
	}
	p.PurchasePrice = price
	p.touch()
	return nil
}

// Deactivate takes an active product off the catalog without losing
// it. Discontinued products stay discontinued.
func (p *Product) Deactivate() error {
	switch p.Status {
	case ProductStatusInactive:
		return shared.NewDomainError("ALREADY_INACTIVE", "Product is already inactive")
	case ProductStatusDiscontinued:
		return shared.NewDomainError("CANNOT_DEACTIVATE", "Cannot deactivate a discontinued product")
	}
	p.setStatus(ProductStatusInactive)
	return nil
}

func (p *Product) Activate() error {
	switch p.Status {
	case ProductStatusActive:
		return shared.NewDomainError("ALREADY_ACTIVE", "Product is already active")
	case ProductStatusDiscontinued:
		return shared.NewDomainError("CANNOT_ACTIVATE", "Cannot activate a discontinued product")
	}
	p.setStatus(ProductStatusActive)
	return nil
}

// Discontinue retires the product permanently. There is no way back
// to active or inactive.
func (p *Product) Discontinue() error {
	if p.Status == ProductStatusDiscontinued {
		return shared.NewDomainError("ALREADY_DISCONTINUED", "Product is already discontinued")
	}
	p.setStatus(ProductStatusDiscontinued)
	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

func (p *Product) setStatus(status ProductStatus) {
	old := p.Status
	p.Status = status
	p.touch()
	p.AddDomainEvent(NewProductStatusChangedEvent(p, old, status))
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "Product SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !isSKURune(r) {
			return shared.NewDomainError("INVALID_SKU", "Product SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

func isSKURune(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
		(r >= '0' && r <= '9') || r == '_' || r == '-'
}

func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validateUnit(unit string) error {
	if unit == "" {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot be empty")
	}
	if len(unit) > 20 {
		return shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}
	return nil
}
