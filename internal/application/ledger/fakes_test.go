package ledger

import (
	"github.com/google/uuid"
	"github.com/growops/backend/internal/application/ledger/ledgertest"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/inventory"
)

// ledgerFixture wires a movement service over in-memory repositories
type ledgerFixture struct {
	tenantID   uuid.UUID
	facilityID uuid.UUID
	items      *ledgertest.ItemRepo
	activities *ledgertest.ActivityRepo
	batches    *ledgertest.BatchRepo
	plants     *ledgertest.PlantRepo
	products   *ledgertest.ProductReader
	scope      *NoOpTransactionScope
	service    *MovementService
}

func newLedgerFixture() *ledgerFixture {
	items := ledgertest.NewItemRepo()
	activities := ledgertest.NewActivityRepo()
	batches := ledgertest.NewBatchRepo()
	plants := ledgertest.NewPlantRepo()
	products := ledgertest.NewProductReader()
	scope := NewNoOpTransactionScope(items, activities, batches, plants, products)
	service := NewMovementService(scope, inventory.NewLotNumberGenerator())
	return &ledgerFixture{
		tenantID:   uuid.New(),
		facilityID: uuid.New(),
		items:      items,
		activities: activities,
		batches:    batches,
		plants:     plants,
		products:   products,
		scope:      scope,
		service:    service,
	}
}

func (f *ledgerFixture) addProduct(category catalog.ProductCategory) *catalog.Product {
	product, err := catalog.NewProduct(f.tenantID, "SKU-"+uuid.NewString()[:8], "Test product", category, "kg")
	if err != nil {
		panic(err)
	}
	f.products.Add(product)
	return product
}
