package persistence

import (
	"context"

	"github.com/growops/backend/internal/application/ledger"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/growops/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormTransactionScope implements ledger.TransactionScope using GORM transactions
type GormTransactionScope struct {
	db            *gorm.DB
	productReader catalog.ProductReader
}

// TransactionScopeOption customizes a GormTransactionScope
type TransactionScopeOption func(*GormTransactionScope)

// WithProductReader overrides the product reader handed to transactional
// callbacks. Products are reference data, so a caching reader outside
// the transaction is safe and keeps the hot movement path off the
// database.
func WithProductReader(reader catalog.ProductReader) TransactionScopeOption {
	return func(s *GormTransactionScope) {
		s.productReader = reader
	}
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB, opts ...TransactionScopeOption) *GormTransactionScope {
	s := &GormTransactionScope{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos ledger.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx, productReader: s.productReader})
	})
}

// gormTransactionalRepositories provides repositories bound to a single transaction
type gormTransactionalRepositories struct {
	tx            *gorm.DB
	productReader catalog.ProductReader
}

func (r *gormTransactionalRepositories) ItemRepo() inventory.InventoryItemRepository {
	return NewGormInventoryItemRepository(r.tx)
}

func (r *gormTransactionalRepositories) ActivityRepo() inventory.ActivityRepository {
	return NewGormActivityRepository(r.tx)
}

func (r *gormTransactionalRepositories) BatchRepo() cultivation.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

func (r *gormTransactionalRepositories) PlantRepo() cultivation.PlantRepository {
	return NewGormPlantRepository(r.tx)
}

func (r *gormTransactionalRepositories) ProductRepo() catalog.ProductReader {
	if r.productReader != nil {
		return r.productReader
	}
	return NewGormProductRepository(r.tx)
}

// Ensure interface compliance
var _ ledger.TransactionScope = (*GormTransactionScope)(nil)
var _ ledger.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
