package ledger

import (
	"context"

	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/growops/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to the ledger's
// repositories. When a function is executed within a transaction scope,
// all repository operations are part of the same database transaction
// and commit or roll back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories a
// movement or lifecycle operation touches, all sharing one underlying
// database transaction.
type TransactionalRepositories interface {
	// ItemRepo returns the lot repository scoped to the current transaction
	ItemRepo() inventory.InventoryItemRepository
	// ActivityRepo returns the activity journal scoped to the current transaction
	ActivityRepo() inventory.ActivityRepository
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() cultivation.BatchRepository
	// PlantRepo returns the plant repository scoped to the current transaction
	PlantRepo() cultivation.PlantRepository
	// ProductRepo returns a read-only product lookup scoped to the current transaction
	ProductRepo() catalog.ProductReader
}

// NoOpTransactionScope is a transaction scope without real
// transactions, for tests and single-store setups.
type NoOpTransactionScope struct {
	itemRepo     inventory.InventoryItemRepository
	activityRepo inventory.ActivityRepository
	batchRepo    cultivation.BatchRepository
	plantRepo    cultivation.PlantRepository
	productRepo  catalog.ProductReader
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(
	itemRepo inventory.InventoryItemRepository,
	activityRepo inventory.ActivityRepository,
	batchRepo cultivation.BatchRepository,
	plantRepo cultivation.PlantRepository,
	productRepo catalog.ProductReader,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		itemRepo:     itemRepo,
		activityRepo: activityRepo,
		batchRepo:    batchRepo,
		plantRepo:    plantRepo,
		productRepo:  productRepo,
	}
}

// Execute runs the function without a real transaction
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// ItemRepo returns the lot repository
func (s *NoOpTransactionScope) ItemRepo() inventory.InventoryItemRepository {
	return s.itemRepo
}

// ActivityRepo returns the activity journal
func (s *NoOpTransactionScope) ActivityRepo() inventory.ActivityRepository {
	return s.activityRepo
}

// BatchRepo returns the batch repository
func (s *NoOpTransactionScope) BatchRepo() cultivation.BatchRepository {
	return s.batchRepo
}

// PlantRepo returns the plant repository
func (s *NoOpTransactionScope) PlantRepo() cultivation.PlantRepository {
	return s.plantRepo
}

// ProductRepo returns the product lookup
func (s *NoOpTransactionScope) ProductRepo() catalog.ProductReader {
	return s.productRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
