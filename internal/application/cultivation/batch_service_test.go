package cultivation

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/application/ledger"
	"github.com/growops/backend/internal/application/ledger/ledgertest"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type batchFixture struct {
	tenantID   uuid.UUID
	facilityID uuid.UUID
	areaID     uuid.UUID
	items      *ledgertest.ItemRepo
	activities *ledgertest.ActivityRepo
	batches    *ledgertest.BatchRepo
	plants     *ledgertest.PlantRepo
	products   *ledgertest.ProductReader
	service    *BatchService
}

func newBatchFixture() *batchFixture {
	items := ledgertest.NewItemRepo()
	activities := ledgertest.NewActivityRepo()
	batches := ledgertest.NewBatchRepo()
	plants := ledgertest.NewPlantRepo()
	products := ledgertest.NewProductReader()
	scope := ledger.NewNoOpTransactionScope(items, activities, batches, plants, products)
	movements := ledger.NewMovementService(scope, inventory.NewLotNumberGenerator())
	return &batchFixture{
		tenantID:   uuid.New(),
		facilityID: uuid.New(),
		areaID:     uuid.New(),
		items:      items,
		activities: activities,
		batches:    batches,
		plants:     plants,
		products:   products,
		service:    NewBatchService(scope, movements),
	}
}

func (f *batchFixture) addProduct(category catalog.ProductCategory) *catalog.Product {
	product, err := catalog.NewProduct(f.tenantID, "SKU-"+uuid.NewString()[:8], "Test product", category, "unit")
	if err != nil {
		panic(err)
	}
	f.products.Add(product)
	return product
}

func (f *batchFixture) createBatch(t *testing.T, product *catalog.Product, quantity int64, tracking bool, tags []string) *BatchResponse {
	t.Helper()
	batch, err := f.service.Create(context.Background(), f.tenantID, CreateBatchRequest{
		Name:                     "Batch " + uuid.NewString()[:8],
		ProductID:                product.ID,
		FacilityID:               f.facilityID,
		AreaID:                   f.areaID,
		InitialPhase:             cultivation.PhaseGermination,
		InitialQuantity:          decimal.NewFromInt(quantity),
		EnableIndividualTracking: tracking,
		PlantTags:                tags,
	})
	require.NoError(t, err)
	return batch
}

// linkLot seeds a consumable lot whose source batch points at the given
// batch, the way a transformation would have left it.
func (f *batchFixture) linkLot(t *testing.T, batchID, productID uuid.UUID, quantity, costPerUnit string) *inventory.InventoryItem {
	t.Helper()
	item, err := inventory.NewInventoryItem(f.tenantID, inventory.NewItemParams{
		ProductID:     productID,
		FacilityID:    f.facilityID,
		AreaID:        f.areaID,
		Quantity:      decimal.RequireFromString(quantity),
		QuantityUnit:  "unit",
		BatchNumber:   "SL-20260101-0001",
		ReceivedDate:  time.Now(),
		CostPerUnit:   decimal.RequireFromString(costPerUnit),
		SourceType:    inventory.SourceTypeProduction,
		SourceBatchID: &batchID,
	})
	require.NoError(t, err)
	require.NoError(t, f.items.Save(context.Background(), item))
	return item
}

func TestBatchServiceCreate(t *testing.T) {
	t.Run("creates batch with plants when tracking individuals", func(t *testing.T) {
		f := newBatchFixture()
		product := f.addProduct(catalog.CategorySeedling)

		batch := f.createBatch(t, product, 3, true, []string{"TAG-1", "TAG-2", "TAG-3"})

		assert.Equal(t, string(cultivation.BatchStatusActive), batch.Status)
		assert.Equal(t, string(cultivation.PhaseGermination), batch.CurrentPhase)
		alive, err := f.plants.CountAliveByBatch(context.Background(), f.tenantID, batch.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 3, alive)
	})

	t.Run("skips plants without individual tracking", func(t *testing.T) {
		f := newBatchFixture()
		product := f.addProduct(catalog.CategorySeedling)

		batch := f.createBatch(t, product, 100, false, nil)

		assert.True(t, batch.CurrentQuantity.Equal(decimal.NewFromInt(100)))
		assert.Empty(t, f.plants.Plants)
	})
}

func TestBatchServiceTransitionPhase(t *testing.T) {
	t.Run("transforms the linked lot and accumulates loss", func(t *testing.T) {
		f := newBatchFixture()
		seedlingProduct := f.addProduct(catalog.CategorySeedling)
		plantProduct := f.addProduct(catalog.CategoryPlant)
		batch := f.createBatch(t, seedlingProduct, 100, false, nil)
		lot := f.linkLot(t, batch.ID, seedlingProduct.ID, "100", "2.5")

		result, err := f.service.TransitionPhase(context.Background(), f.tenantID, batch.ID, TransitionPhaseRequest{
			NewPhase:        cultivation.PhaseVegetative,
			TargetProductID: plantProduct.ID,
			TargetQuantity:  decimal.NewFromInt(95),
			LossQuantity:    decimal.NewFromInt(5),
			LossReason:      "damping off",
		})
		require.NoError(t, err)

		assert.Equal(t, string(cultivation.PhaseVegetative), result.Batch.CurrentPhase)
		assert.True(t, result.Batch.CurrentQuantity.Equal(decimal.NewFromInt(95)))
		assert.True(t, result.Batch.LostQuantity.Equal(decimal.NewFromInt(5)))
		assert.True(t, result.Batch.MortalityRate.Equal(decimal.NewFromInt(5)))

		// The seedling lot is frozen and a plant lot exists in its place
		source := f.items.Items[lot.ID]
		assert.Equal(t, inventory.TransformationStatusTransformed, source.TransformationStatus)
		assert.True(t, source.QuantityAvailable.IsZero())
		require.NotNil(t, result.NewItemID)
		created := f.items.Items[*result.NewItemID]
		assert.Equal(t, plantProduct.ID, created.ProductID)
		assert.True(t, created.QuantityAvailable.Equal(decimal.NewFromInt(95)))
		require.NotNil(t, created.SourceBatchID)
		assert.Equal(t, batch.ID, *created.SourceBatchID)
	})

	t.Run("records a plain activity when no lot is linked", func(t *testing.T) {
		f := newBatchFixture()
		seedlingProduct := f.addProduct(catalog.CategorySeedling)
		plantProduct := f.addProduct(catalog.CategoryPlant)
		batch := f.createBatch(t, seedlingProduct, 50, false, nil)

		result, err := f.service.TransitionPhase(context.Background(), f.tenantID, batch.ID, TransitionPhaseRequest{
			NewPhase:        cultivation.PhaseSeedling,
			TargetProductID: plantProduct.ID,
			TargetQuantity:  decimal.NewFromInt(50),
		})
		require.NoError(t, err)

		assert.Nil(t, result.NewItemID)
		assert.Empty(t, f.items.Items)
		activity, err := f.activities.FindByID(context.Background(), result.ActivityID)
		require.NoError(t, err)
		assert.Equal(t, inventory.ActivityPhaseTransition, activity.ActivityType)
		assert.Equal(t, "batch", activity.EntityType)
	})

	t.Run("advances tracked plants with the batch", func(t *testing.T) {
		f := newBatchFixture()
		seedlingProduct := f.addProduct(catalog.CategorySeedling)
		plantProduct := f.addProduct(catalog.CategoryPlant)
		batch := f.createBatch(t, seedlingProduct, 2, true, []string{"TAG-1", "TAG-2"})

		result, err := f.service.TransitionPhase(context.Background(), f.tenantID, batch.ID, TransitionPhaseRequest{
			NewPhase:        cultivation.PhaseVegetative,
			TargetProductID: plantProduct.ID,
			TargetQuantity:  decimal.NewFromInt(2),
		})
		require.NoError(t, err)

		assert.Equal(t, 2, result.PlantsPropagated)
		for _, plant := range f.plants.Plants {
			assert.Equal(t, cultivation.PhaseVegetative, plant.PlantStage)
		}
	})

	t.Run("rejects a terminal batch", func(t *testing.T) {
		f := newBatchFixture()
		seedlingProduct := f.addProduct(catalog.CategorySeedling)
		plantProduct := f.addProduct(catalog.CategoryPlant)
		materialProduct := f.addProduct(catalog.CategoryPlantMaterial)
		batch := f.createBatch(t, seedlingProduct, 10, false, nil)

		_, err := f.service.Harvest(context.Background(), f.tenantID, batch.ID, HarvestRequest{
			TargetProductID: materialProduct.ID,
			PlantsHarvested: decimal.NewFromInt(10),
			YieldQuantity:   decimal.NewFromInt(4),
			YieldUnit:       "kg",
		})
		require.NoError(t, err)

		_, err = f.service.TransitionPhase(context.Background(), f.tenantID, batch.ID, TransitionPhaseRequest{
			NewPhase:        cultivation.PhaseVegetative,
			TargetProductID: plantProduct.ID,
			TargetQuantity:  decimal.NewFromInt(10),
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	})
}

func TestBatchServiceHarvest(t *testing.T) {
	t.Run("closes the batch and yields plant material at proportional cost", func(t *testing.T) {
		f := newBatchFixture()
		plantProduct := f.addProduct(catalog.CategoryPlant)
		materialProduct := f.addProduct(catalog.CategoryPlantMaterial)
		batch := f.createBatch(t, plantProduct, 10, false, nil)
		lot := f.linkLot(t, batch.ID, plantProduct.ID, "10", "3")

		result, err := f.service.Harvest(context.Background(), f.tenantID, batch.ID, HarvestRequest{
			TargetProductID: materialProduct.ID,
			PlantsHarvested: decimal.NewFromInt(10),
			YieldQuantity:   decimal.NewFromInt(4),
			YieldUnit:       "kg",
		})
		require.NoError(t, err)

		assert.Equal(t, string(cultivation.BatchStatusHarvested), result.Batch.Status)
		assert.Equal(t, string(cultivation.PhaseHarvested), result.Batch.CurrentPhase)
		require.NotNil(t, result.Batch.HarvestDate)

		source := f.items.Items[lot.ID]
		assert.Equal(t, inventory.TransformationStatusHarvested, source.TransformationStatus)
		assert.True(t, source.QuantityAvailable.IsZero())

		require.NotNil(t, result.NewItemID)
		yield := f.items.Items[*result.NewItemID]
		assert.Equal(t, materialProduct.ID, yield.ProductID)
		assert.True(t, yield.QuantityAvailable.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, "kg", yield.QuantityUnit)
		// 10 plants at 3.00 each over 4 kg of yield
		assert.True(t, yield.CostPerUnit.Equal(decimal.RequireFromString("7.5")), yield.CostPerUnit.String())
		assert.Equal(t, inventory.SourceTypeProduction, yield.SourceType)
		assert.Nil(t, yield.SupplierID)
	})

	t.Run("marks tracked plants harvested", func(t *testing.T) {
		f := newBatchFixture()
		plantProduct := f.addProduct(catalog.CategoryPlant)
		materialProduct := f.addProduct(catalog.CategoryPlantMaterial)
		tags := make([]string, 4)
		for i := range tags {
			tags[i] = fmt.Sprintf("TAG-%d", i+1)
		}
		batch := f.createBatch(t, plantProduct, 4, true, tags)

		result, err := f.service.Harvest(context.Background(), f.tenantID, batch.ID, HarvestRequest{
			TargetProductID: materialProduct.ID,
			PlantsHarvested: decimal.NewFromInt(4),
			YieldQuantity:   decimal.NewFromInt(2),
			YieldUnit:       "kg",
		})
		require.NoError(t, err)

		assert.Equal(t, 4, result.PlantsPropagated)
		for _, plant := range f.plants.Plants {
			assert.Equal(t, cultivation.PlantStatusHarvested, plant.Status)
		}
		alive, err := f.plants.CountAliveByBatch(context.Background(), f.tenantID, batch.ID)
		require.NoError(t, err)
		assert.Zero(t, alive)
	})

	t.Run("rejects a missing yield up front", func(t *testing.T) {
		f := newBatchFixture()

		_, err := f.service.Harvest(context.Background(), f.tenantID, uuid.New(), HarvestRequest{
			TargetProductID: uuid.New(),
			PlantsHarvested: decimal.NewFromInt(10),
		})

		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_OPERATION", domainErr.Code)
	})
}
