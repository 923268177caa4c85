package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockItemRepository(t *testing.T) (*GormInventoryItemRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormInventoryItemRepository(gormDB), mock, mockDB
}

func lotColumns() []string {
	return []string{
		"id", "tenant_id", "product_id", "facility_id", "area_id",
		"quantity_available", "quantity_unit", "batch_number",
		"received_date", "lot_status", "source_type",
		"transformation_status", "version",
	}
}

func TestGormInventoryItemRepository_FindByIDForTenant(t *testing.T) {
	t.Run("finds lot within tenant", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		itemID := uuid.New()
		tenantID := uuid.New()
		productID := uuid.New()

		rows := sqlmock.NewRows(lotColumns()).AddRow(
			itemID, tenantID, productID, uuid.New(), uuid.New(),
			decimal.NewFromInt(40), "g", "SEM-20260830-0001",
			time.Now(), "available", "purchase",
			"", 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, itemID, 1).
			WillReturnRows(rows)

		item, err := repo.FindByIDForTenant(context.Background(), tenantID, itemID)

		assert.NoError(t, err)
		assert.NotNil(t, item)
		assert.Equal(t, tenantID, item.TenantID)
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, "SEM-20260830-0001", item.BatchNumber)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found for missing lot", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		itemID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE tenant_id = \$1 AND id = \$2`).
			WithArgs(tenantID, itemID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindByIDForTenant(context.Background(), tenantID, itemID)

		assert.Error(t, err)
		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_FindAvailableForConsumption(t *testing.T) {
	t.Run("orders eligible lots oldest received first", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		facilityID := uuid.New()
		productID := uuid.New()
		oldLot := uuid.New()
		newLot := uuid.New()

		rows := sqlmock.NewRows(lotColumns()).
			AddRow(oldLot, tenantID, productID, facilityID, uuid.New(),
				decimal.NewFromInt(5), "g", "SEM-20260801-0001",
				time.Now().AddDate(0, 0, -29), "available", "purchase", "", 1).
			AddRow(newLot, tenantID, productID, facilityID, uuid.New(),
				decimal.NewFromInt(10), "g", "SEM-20260828-0002",
				time.Now().AddDate(0, 0, -2), "available", "purchase", "", 1)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE tenant_id = \$1 AND facility_id = \$2 AND product_id = \$3 AND lot_status = \$4 AND transformation_status = '' AND quantity_available > 0 ORDER BY received_date ASC, created_at ASC`).
			WithArgs(tenantID, facilityID, productID, "available").
			WillReturnRows(rows)

		items, err := repo.FindAvailableForConsumption(context.Background(), tenantID, facilityID, productID)

		assert.NoError(t, err)
		require.Len(t, items, 2)
		assert.Equal(t, oldLot, items[0].ID)
		assert.Equal(t, newLot, items[1].ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_FindMergeTarget(t *testing.T) {
	t.Run("finds active lot matching product, area, and batch", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		areaID := uuid.New()
		productID := uuid.New()
		itemID := uuid.New()

		rows := sqlmock.NewRows(lotColumns()).AddRow(
			itemID, tenantID, productID, uuid.New(), areaID,
			decimal.NewFromInt(12), "units", "PLT-20260815-0003",
			time.Now(), "available", "transfer",
			"", 3,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE \(tenant_id = \$1 AND area_id = \$2 AND product_id = \$3 AND batch_number = \$4\) AND lot_status = \$5 AND transformation_status = ''`).
			WithArgs(tenantID, areaID, productID, "PLT-20260815-0003", "available", 1).
			WillReturnRows(rows)

		item, err := repo.FindMergeTarget(context.Background(), tenantID, areaID, productID, "PLT-20260815-0003")

		assert.NoError(t, err)
		assert.NotNil(t, item)
		assert.Equal(t, itemID, item.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns not found when no mergeable lot exists", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "inventory_items"`).
			WillReturnError(gorm.ErrRecordNotFound)

		item, err := repo.FindMergeTarget(context.Background(), uuid.New(), uuid.New(), uuid.New(), "PLT-20260815-0003")

		assert.Error(t, err)
		assert.Nil(t, item)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_SaveWithLock(t *testing.T) {
	newTestLot := func(t *testing.T) *inventory.InventoryItem {
		t.Helper()
		item, err := inventory.NewInventoryItem(uuid.New(), inventory.NewItemParams{
			ProductID:    uuid.New(),
			FacilityID:   uuid.New(),
			AreaID:       uuid.New(),
			Quantity:     decimal.NewFromInt(100),
			QuantityUnit: "g",
			BatchNumber:  "SEM-20260830-0001",
			SourceType:   inventory.SourceTypePurchase,
		})
		require.NoError(t, err)
		return item
	}

	t.Run("updates row when version matches", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		item := newTestLot(t)
		require.NoError(t, item.Deduct(decimal.NewFromInt(30), inventory.MovementConsumption))

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.SaveWithLock(context.Background(), item)

		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns conflict when another writer got there first", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		item := newTestLot(t)
		require.NoError(t, item.Deduct(decimal.NewFromInt(30), inventory.MovementConsumption))

		mock.ExpectExec(`UPDATE "inventory_items" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SaveWithLock(context.Background(), item)

		assert.Error(t, err)
		assert.Equal(t, shared.ErrConcurrencyConflict, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_SumQuantityByProduct(t *testing.T) {
	t.Run("sums available quantity across lots", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT COALESCE\(SUM\(quantity_available\), 0\) as total FROM "inventory_items" WHERE tenant_id = \$1 AND product_id = \$2`).
			WithArgs(tenantID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(decimal.NewFromFloat(37.5)))

		total, err := repo.SumQuantityByProduct(context.Background(), tenantID, productID)

		assert.NoError(t, err)
		assert.True(t, total.Equal(decimal.NewFromFloat(37.5)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_CountForTenant(t *testing.T) {
	t.Run("counts lots with filter keys applied", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		productID := uuid.New()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "inventory_items" WHERE tenant_id = \$1 AND product_id = \$2 AND quantity_available > 0`).
			WithArgs(tenantID, productID).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

		count, err := repo.CountForTenant(context.Background(), tenantID, shared.Filter{
			Filters: map[string]interface{}{
				"product_id": productID,
				"has_stock":  true,
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, int64(4), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_FindExpiring(t *testing.T) {
	t.Run("returns lots past the cutoff", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		tenantID := uuid.New()
		cutoff := time.Now().AddDate(0, 0, 7)

		rows := sqlmock.NewRows(lotColumns()).AddRow(
			uuid.New(), tenantID, uuid.New(), uuid.New(), uuid.New(),
			decimal.NewFromInt(8), "g", "NUT-20260601-0002",
			time.Now().AddDate(0, -2, 0), "available", "purchase",
			"", 1,
		)

		mock.ExpectQuery(`SELECT \* FROM "inventory_items" WHERE tenant_id = \$1 AND expiration_date IS NOT NULL AND expiration_date < \$2`).
			WithArgs(tenantID, sqlmock.AnyArg()).
			WillReturnRows(rows)

		items, err := repo.FindExpiring(context.Background(), tenantID, cutoff, shared.Filter{})

		assert.NoError(t, err)
		assert.Len(t, items, 1)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormInventoryItemRepository_DistinctTenantIDs(t *testing.T) {
	t.Run("returns every tenant owning stock", func(t *testing.T) {
		repo, mock, mockDB := newMockItemRepository(t)
		defer mockDB.Close()

		t1 := uuid.New()
		t2 := uuid.New()

		mock.ExpectQuery(`SELECT DISTINCT "tenant_id" FROM "inventory_items"`).
			WillReturnRows(sqlmock.NewRows([]string{"tenant_id"}).AddRow(t1).AddRow(t2))

		ids, err := repo.DistinctTenantIDs(context.Background())

		assert.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{t1, t2}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
