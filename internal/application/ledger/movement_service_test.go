package ledger

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *ledgerFixture) receive(t *testing.T, productID, areaID uuid.UUID, quantity string, receivedDate time.Time) *MovementResult {
	t.Helper()
	received := receivedDate
	result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
		MovementType: inventory.MovementReceipt,
		ProductID:    productID,
		FacilityID:   f.facilityID,
		AreaID:       areaID,
		Quantity:     decimal.RequireFromString(quantity),
		QuantityUnit: "kg",
		ReceivedDate: &received,
	})
	require.NoError(t, err)
	return result
}

func TestRecordMovementReceipt(t *testing.T) {
	t.Run("creates lot with bidirectional activity linkage", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaID := uuid.New()

		result := f.receive(t, product.ID, areaID, "50", time.Now())

		assert.Equal(t, inventory.MovementReceipt, result.MovementType)
		assert.True(t, result.QuantityChange.Equal(decimal.NewFromInt(50)))
		require.NotNil(t, result.InventoryItemID)

		item := f.items.Items[*result.InventoryItemID]
		require.NotNil(t, item)
		require.NotNil(t, item.CreatedByActivityID)
		assert.Equal(t, result.ActivityID, *item.CreatedByActivityID)

		activity, err := f.activities.FindByID(context.Background(), result.ActivityID)
		require.NoError(t, err)
		require.NotNil(t, activity.EntityID)
		assert.Equal(t, item.ID, *activity.EntityID)
		assert.Equal(t, "inventory_item", activity.EntityType)
		assert.True(t, activity.QuantityBefore.IsZero())
		assert.True(t, activity.QuantityAfter.Equal(decimal.NewFromInt(50)))
	})

	t.Run("generates category-prefixed lot number when none supplied", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategorySeed)

		result := f.receive(t, product.ID, uuid.New(), "10", time.Now())

		assert.True(t, strings.HasPrefix(result.BatchNumber, "SD-"), result.BatchNumber)
	})

	t.Run("keeps caller-supplied batch number", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategorySeed)

		result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType: inventory.MovementReceipt,
			ProductID:    product.ID,
			FacilityID:   f.facilityID,
			AreaID:       uuid.New(),
			Quantity:     decimal.NewFromInt(10),
			QuantityUnit: "kg",
			BatchNumber:  "EXT-0042",
		})

		require.NoError(t, err)
		assert.Equal(t, "EXT-0042", result.BatchNumber)
	})

	t.Run("unknown product yields not found", func(t *testing.T) {
		f := newLedgerFixture()

		_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType: inventory.MovementReceipt,
			ProductID:    uuid.New(),
			FacilityID:   f.facilityID,
			AreaID:       uuid.New(),
			Quantity:     decimal.NewFromInt(10),
			QuantityUnit: "kg",
		})

		require.Error(t, err)
		assert.True(t, shared.IsNotFound(err))
	})
}

func TestRecordMovementUnsupportedType(t *testing.T) {
	f := newLedgerFixture()

	_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
		MovementType: inventory.MovementType("teleport"),
	})

	require.Error(t, err)
	var typeErr *inventory.UnsupportedMovementTypeError
	require.ErrorAs(t, err, &typeErr)
	assert.Equal(t, "teleport", typeErr.MovementType)
}

func TestRecordMovementConsumptionFIFO(t *testing.T) {
	t.Run("consumes oldest lots first", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaID := uuid.New()
		day1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
		day3 := time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)

		lot1 := f.receive(t, product.ID, areaID, "5", day1)
		lot2 := f.receive(t, product.ID, areaID, "10", day3)

		result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType: inventory.MovementConsumption,
			ProductID:    product.ID,
			FacilityID:   f.facilityID,
			AreaID:       areaID,
			Quantity:     decimal.NewFromInt(8),
			QuantityUnit: "kg",
		})

		require.NoError(t, err)
		assert.True(t, result.QuantityChange.Equal(decimal.NewFromInt(-8)))
		assert.Equal(t, 2, result.LotsTouched)
		assert.True(t, f.items.Items[*lot1.InventoryItemID].QuantityAvailable.IsZero())
		assert.True(t, f.items.Items[*lot2.InventoryItemID].QuantityAvailable.Equal(decimal.NewFromInt(7)))

		activity, err := f.activities.FindByID(context.Background(), result.ActivityID)
		require.NoError(t, err)
		require.Len(t, activity.MaterialsConsumed, 2)
		assert.Equal(t, *lot1.InventoryItemID, activity.MaterialsConsumed[0].InventoryItemID)
		assert.True(t, activity.MaterialsConsumed[0].Quantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, activity.MaterialsConsumed[1].Quantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("shortfall fails atomically with available and required", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaID := uuid.New()
		f.receive(t, product.ID, areaID, "5", time.Now())
		f.receive(t, product.ID, areaID, "3", time.Now())

		_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType: inventory.MovementConsumption,
			ProductID:    product.ID,
			FacilityID:   f.facilityID,
			AreaID:       areaID,
			Quantity:     decimal.NewFromInt(10),
			QuantityUnit: "kg",
		})

		require.Error(t, err)
		var stockErr *inventory.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(8)))
		assert.True(t, stockErr.Required.Equal(decimal.NewFromInt(10)))

		// No partial writes
		total, _ := f.items.SumQuantityByProduct(context.Background(), f.tenantID, product.ID)
		assert.True(t, total.Equal(decimal.NewFromInt(8)))
		assert.Len(t, f.activities.Activities, 2) // only the receipts
	})

	t.Run("specific mode targets the named lot", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaID := uuid.New()
		older := f.receive(t, product.ID, areaID, "10", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
		newer := f.receive(t, product.ID, areaID, "10", time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC))

		_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:    inventory.MovementWaste,
			ProductID:       product.ID,
			InventoryItemID: newer.InventoryItemID,
			FacilityID:      f.facilityID,
			AreaID:          areaID,
			Quantity:        decimal.NewFromInt(4),
			QuantityUnit:    "kg",
			Reason:          "spillage",
		})

		require.NoError(t, err)
		assert.True(t, f.items.Items[*older.InventoryItemID].QuantityAvailable.Equal(decimal.NewFromInt(10)))
		assert.True(t, f.items.Items[*newer.InventoryItemID].QuantityAvailable.Equal(decimal.NewFromInt(6)))
	})
}

func TestRecordMovementCorrection(t *testing.T) {
	t.Run("is absolute not relative", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaID := uuid.New()
		lot := f.receive(t, product.ID, areaID, "30", time.Now())

		newQuantity := decimal.NewFromInt(42)
		result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:    inventory.MovementCorrection,
			InventoryItemID: lot.InventoryItemID,
			FacilityID:      f.facilityID,
			AreaID:          areaID,
			Quantity:        decimal.NewFromInt(999), // ignored
			NewQuantity:     &newQuantity,
			Reason:          "physical count",
		})

		require.NoError(t, err)
		assert.True(t, result.QuantityChange.Equal(decimal.NewFromInt(12)))
		assert.True(t, f.items.Items[*lot.InventoryItemID].QuantityAvailable.Equal(decimal.NewFromInt(42)))
	})

	t.Run("requires target item and new quantity", func(t *testing.T) {
		f := newLedgerFixture()
		newQuantity := decimal.NewFromInt(5)

		_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType: inventory.MovementCorrection,
			FacilityID:   f.facilityID,
			NewQuantity:  &newQuantity,
		})
		requireDomainCode(t, err, "INVALID_OPERATION")

		itemID := uuid.New()
		_, err = f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:    inventory.MovementCorrection,
			InventoryItemID: &itemID,
			FacilityID:      f.facilityID,
		})
		requireDomainCode(t, err, "INVALID_OPERATION")
	})
}

func TestRecordMovementTransfer(t *testing.T) {
	t.Run("creates new lot at empty destination inheriting provenance", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaX := uuid.New()
		areaY := uuid.New()
		lot := f.receive(t, product.ID, areaX, "25", time.Now())
		destination := areaY

		result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:      inventory.MovementTransfer,
			InventoryItemID:   lot.InventoryItemID,
			FacilityID:        f.facilityID,
			AreaID:            areaX,
			DestinationAreaID: &destination,
			Quantity:          decimal.NewFromInt(10),
			QuantityUnit:      "kg",
		})

		require.NoError(t, err)
		assert.True(t, result.QuantityChange.IsZero())
		source := f.items.Items[*lot.InventoryItemID]
		target := f.items.Items[*result.TargetItemID]
		assert.True(t, source.QuantityAvailable.Equal(decimal.NewFromInt(15)))
		assert.True(t, target.QuantityAvailable.Equal(decimal.NewFromInt(10)))
		assert.Equal(t, source.BatchNumber, target.BatchNumber)
		assert.Equal(t, inventory.SourceTypeTransfer, target.SourceType)
		assert.Equal(t, source.ReceivedDate, target.ReceivedDate)
		assert.True(t, target.CostPerUnit.Equal(source.CostPerUnit))
	})

	t.Run("merges into existing lot instead of duplicating", func(t *testing.T) {
		f := newLedgerFixture()
		product := f.addProduct(catalog.CategoryNutrient)
		areaX := uuid.New()
		areaY := uuid.New()
		lot := f.receive(t, product.ID, areaX, "25", time.Now())
		destination := areaY

		transfer := func(qty int64) *MovementResult {
			result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
				MovementType:      inventory.MovementTransfer,
				InventoryItemID:   lot.InventoryItemID,
				FacilityID:        f.facilityID,
				AreaID:            areaX,
				DestinationAreaID: &destination,
				Quantity:          decimal.NewFromInt(qty),
				QuantityUnit:      "kg",
			})
			require.NoError(t, err)
			return result
		}

		first := transfer(5)
		second := transfer(5)

		assert.Equal(t, *first.TargetItemID, *second.TargetItemID)
		assert.True(t, f.items.Items[*first.TargetItemID].QuantityAvailable.Equal(decimal.NewFromInt(10)))
		assert.Len(t, f.items.Items, 2) // source and one merged destination lot
	})

	t.Run("requires destination area", func(t *testing.T) {
		f := newLedgerFixture()
		itemID := uuid.New()

		_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:    inventory.MovementTransfer,
			InventoryItemID: &itemID,
			FacilityID:      f.facilityID,
			Quantity:        decimal.NewFromInt(1),
		})

		requireDomainCode(t, err, "INVALID_OPERATION")
	})
}

func TestRecordMovementTransformation(t *testing.T) {
	t.Run("freezes source and creates production lot with provenance reset", func(t *testing.T) {
		f := newLedgerFixture()
		seedling := f.addProduct(catalog.CategorySeedling)
		plant := f.addProduct(catalog.CategoryPlant)
		areaID := uuid.New()

		supplierID := uuid.New()
		received := time.Now()
		sourceResult, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:      inventory.MovementReceipt,
			ProductID:         seedling.ID,
			FacilityID:        f.facilityID,
			AreaID:            areaID,
			Quantity:          decimal.NewFromInt(100),
			QuantityUnit:      "unit",
			SupplierID:        &supplierID,
			SupplierLotNumber: "SUP-789",
			ReceivedDate:      &received,
		})
		require.NoError(t, err)

		targetQty := decimal.NewFromInt(95)
		result, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:       inventory.MovementTransformation,
			InventoryItemID:    sourceResult.InventoryItemID,
			FacilityID:         f.facilityID,
			AreaID:             areaID,
			TargetProductID:    &plant.ID,
			TargetQuantity:     &targetQty,
			TargetQuantityUnit: "unit",
		})
		require.NoError(t, err)

		source := f.items.Items[*sourceResult.InventoryItemID]
		assert.True(t, source.QuantityAvailable.IsZero())
		assert.Equal(t, inventory.TransformationStatusTransformed, source.TransformationStatus)
		require.NotNil(t, source.TransformedToItemID)
		assert.Equal(t, *result.TargetItemID, *source.TransformedToItemID)
		require.NotNil(t, source.TransformedByActivityID)
		assert.Equal(t, result.ActivityID, *source.TransformedByActivityID)

		target := f.items.Items[*result.TargetItemID]
		assert.Equal(t, plant.ID, target.ProductID)
		assert.Equal(t, inventory.SourceTypeProduction, target.SourceType)
		assert.True(t, strings.HasPrefix(target.BatchNumber, "PL-"), target.BatchNumber)
		// Manufactured lots carry no supplier identity
		assert.Nil(t, target.SupplierID)
		assert.Empty(t, target.SupplierLotNumber)
	})

	t.Run("terminal source cannot be transformed again", func(t *testing.T) {
		f := newLedgerFixture()
		seedling := f.addProduct(catalog.CategorySeedling)
		plant := f.addProduct(catalog.CategoryPlant)
		areaID := uuid.New()
		lot := f.receive(t, seedling.ID, areaID, "10", time.Now())

		targetQty := decimal.NewFromInt(10)
		transform := func() error {
			_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
				MovementType:       inventory.MovementTransformation,
				InventoryItemID:    lot.InventoryItemID,
				FacilityID:         f.facilityID,
				AreaID:             areaID,
				TargetProductID:    &plant.ID,
				TargetQuantity:     &targetQty,
				TargetQuantityUnit: "unit",
			})
			return err
		}

		require.NoError(t, transform())
		requireDomainCode(t, transform(), "INVALID_OPERATION")
	})

	t.Run("transformed lot never enters FIFO selection", func(t *testing.T) {
		f := newLedgerFixture()
		seedling := f.addProduct(catalog.CategorySeedling)
		plant := f.addProduct(catalog.CategoryPlant)
		areaID := uuid.New()
		lot := f.receive(t, seedling.ID, areaID, "10", time.Now())

		targetQty := decimal.NewFromInt(10)
		_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType:       inventory.MovementTransformation,
			InventoryItemID:    lot.InventoryItemID,
			FacilityID:         f.facilityID,
			AreaID:             areaID,
			TargetProductID:    &plant.ID,
			TargetQuantity:     &targetQty,
			TargetQuantityUnit: "unit",
		})
		require.NoError(t, err)

		_, err = f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
			MovementType: inventory.MovementConsumption,
			ProductID:    seedling.ID,
			FacilityID:   f.facilityID,
			AreaID:       areaID,
			Quantity:     decimal.NewFromInt(1),
			QuantityUnit: "unit",
		})

		var stockErr *inventory.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.True(t, stockErr.Available.IsZero())
	})
}

// End-to-end flow across four movements: receipt, FIFO consumption,
// correction, transfer.
func TestMovementFlowEndToEnd(t *testing.T) {
	f := newLedgerFixture()
	product := f.addProduct(catalog.CategoryNutrient)
	areaX := uuid.New()
	areaY := uuid.New()

	// Receipt of 50 kg into area X
	receipt := f.receive(t, product.ID, areaX, "50", time.Now())

	// FIFO consumption of 20 kg with no specific lot
	_, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
		MovementType: inventory.MovementConsumption,
		ProductID:    product.ID,
		FacilityID:   f.facilityID,
		AreaID:       areaX,
		Quantity:     decimal.NewFromInt(20),
		QuantityUnit: "kg",
	})
	require.NoError(t, err)

	// Correction of the remaining lot to 25 kg
	corrected := decimal.NewFromInt(25)
	_, err = f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
		MovementType:    inventory.MovementCorrection,
		InventoryItemID: receipt.InventoryItemID,
		FacilityID:      f.facilityID,
		AreaID:          areaX,
		NewQuantity:     &corrected,
		Reason:          "physical count",
	})
	require.NoError(t, err)

	// Transfer of 10 kg to area Y
	destination := areaY
	transfer, err := f.service.RecordMovement(context.Background(), f.tenantID, MovementRequest{
		MovementType:      inventory.MovementTransfer,
		InventoryItemID:   receipt.InventoryItemID,
		FacilityID:        f.facilityID,
		AreaID:            areaX,
		DestinationAreaID: &destination,
		Quantity:          decimal.NewFromInt(10),
		QuantityUnit:      "kg",
	})
	require.NoError(t, err)

	original := f.items.Items[*receipt.InventoryItemID]
	moved := f.items.Items[*transfer.TargetItemID]
	assert.True(t, original.QuantityAvailable.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, areaX, original.AreaID)
	assert.True(t, moved.QuantityAvailable.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, areaY, moved.AreaID)

	// Four activities recorded; total tracked equals the corrected value
	assert.Len(t, f.activities.Activities, 4)
	total, _ := f.items.SumQuantityByProduct(context.Background(), f.tenantID, product.ID)
	assert.True(t, total.Equal(decimal.NewFromInt(25)))
}

func requireDomainCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}
