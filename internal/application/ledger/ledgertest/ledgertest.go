// Package ledgertest provides in-memory repository implementations for
// exercising the application services without a database. FIFO flows
// are stateful across calls, so the repositories hold real aggregates
// instead of scripted expectations.
package ledgertest

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemRepo is an in-memory inventory.InventoryItemRepository
type ItemRepo struct {
	Items map[uuid.UUID]*inventory.InventoryItem
}

// NewItemRepo creates an empty ItemRepo
func NewItemRepo() *ItemRepo {
	return &ItemRepo{Items: make(map[uuid.UUID]*inventory.InventoryItem)}
}

func (r *ItemRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.Items[id]
	if !ok {
		return nil, shared.NewNotFoundError("inventory_item")
	}
	return item, nil
}

func (r *ItemRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.InventoryItem, error) {
	item, ok := r.Items[id]
	if !ok || item.TenantID != tenantID {
		return nil, shared.NewNotFoundError("inventory_item")
	}
	return item, nil
}

func (r *ItemRepo) FindAvailableForConsumption(_ context.Context, tenantID, facilityID, productID uuid.UUID) ([]*inventory.InventoryItem, error) {
	var result []*inventory.InventoryItem
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.FacilityID == facilityID && item.ProductID == productID && item.IsConsumable() {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(a, b int) bool {
		return result[a].ReceivedDate.Before(result[b].ReceivedDate)
	})
	return result, nil
}

func (r *ItemRepo) FindMergeTarget(_ context.Context, tenantID, areaID, productID uuid.UUID, batchNumber string) (*inventory.InventoryItem, error) {
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.AreaID == areaID && item.ProductID == productID &&
			item.BatchNumber == batchNumber && item.LotStatus == inventory.LotStatusAvailable &&
			!item.TransformationStatus.IsTerminal() {
			return item, nil
		}
	}
	return nil, shared.NewNotFoundError("inventory_item")
}

func (r *ItemRepo) FindByProduct(_ context.Context, tenantID, productID uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	var result []inventory.InventoryItem
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.ProductID == productID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *ItemRepo) FindByArea(_ context.Context, tenantID, areaID uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	var result []inventory.InventoryItem
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.AreaID == areaID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *ItemRepo) FindBySourceBatch(_ context.Context, tenantID, batchID uuid.UUID) ([]inventory.InventoryItem, error) {
	var result []inventory.InventoryItem
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.SourceBatchID != nil && *item.SourceBatchID == batchID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *ItemRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.InventoryItem, error) {
	var result []inventory.InventoryItem
	for _, item := range r.Items {
		if item.TenantID == tenantID {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *ItemRepo) FindExpiring(_ context.Context, tenantID uuid.UUID, cutoff time.Time, _ shared.Filter) ([]inventory.InventoryItem, error) {
	var result []inventory.InventoryItem
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.ExpirationDate != nil && item.ExpirationDate.Before(cutoff) {
			result = append(result, *item)
		}
	}
	return result, nil
}

func (r *ItemRepo) Save(_ context.Context, item *inventory.InventoryItem) error {
	r.Items[item.ID] = item
	return nil
}

func (r *ItemRepo) SaveWithLock(_ context.Context, item *inventory.InventoryItem) error {
	r.Items[item.ID] = item
	return nil
}

func (r *ItemRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, item := range r.Items {
		if item.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

func (r *ItemRepo) SumQuantityByProduct(_ context.Context, tenantID, productID uuid.UUID) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, item := range r.Items {
		if item.TenantID == tenantID && item.ProductID == productID {
			total = total.Add(item.QuantityAvailable)
		}
	}
	return total, nil
}

// ActivityRepo is an in-memory inventory.ActivityRepository
type ActivityRepo struct {
	Activities []*inventory.Activity
}

// NewActivityRepo creates an empty ActivityRepo
func NewActivityRepo() *ActivityRepo {
	return &ActivityRepo{}
}

func (r *ActivityRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Activity, error) {
	for _, a := range r.Activities {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, shared.NewNotFoundError("activity")
}

func (r *ActivityRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*inventory.Activity, error) {
	for _, a := range r.Activities {
		if a.ID == id && a.TenantID == tenantID {
			return a, nil
		}
	}
	return nil, shared.NewNotFoundError("activity")
}

func (r *ActivityRepo) FindByInventoryItem(_ context.Context, tenantID, itemID uuid.UUID, _ shared.Filter) ([]inventory.Activity, error) {
	var result []inventory.Activity
	for _, a := range r.Activities {
		if a.TenantID != tenantID {
			continue
		}
		if a.EntityID != nil && *a.EntityID == itemID {
			result = append(result, *a)
			continue
		}
		for _, m := range a.MaterialsConsumed {
			if m.InventoryItemID == itemID {
				result = append(result, *a)
				break
			}
		}
	}
	return result, nil
}

func (r *ActivityRepo) FindByBatch(_ context.Context, tenantID, batchID uuid.UUID, _ shared.Filter) ([]inventory.Activity, error) {
	var result []inventory.Activity
	for _, a := range r.Activities {
		if a.TenantID == tenantID && a.BatchID != nil && *a.BatchID == batchID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *ActivityRepo) FindByType(_ context.Context, tenantID uuid.UUID, activityType inventory.ActivityType, _ shared.Filter) ([]inventory.Activity, error) {
	var result []inventory.Activity
	for _, a := range r.Activities {
		if a.TenantID == tenantID && a.ActivityType == activityType {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *ActivityRepo) FindByDateRange(_ context.Context, tenantID uuid.UUID, start, end time.Time, _ shared.Filter) ([]inventory.Activity, error) {
	var result []inventory.Activity
	for _, a := range r.Activities {
		if a.TenantID == tenantID && !a.PerformedAt.Before(start) && !a.PerformedAt.After(end) {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *ActivityRepo) FindForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]inventory.Activity, error) {
	var result []inventory.Activity
	for _, a := range r.Activities {
		if a.TenantID == tenantID {
			result = append(result, *a)
		}
	}
	return result, nil
}

func (r *ActivityRepo) Create(_ context.Context, activity *inventory.Activity) error {
	r.Activities = append(r.Activities, activity)
	return nil
}

func (r *ActivityRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, a := range r.Activities {
		if a.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// BatchRepo is an in-memory cultivation.BatchRepository
type BatchRepo struct {
	Batches map[uuid.UUID]*cultivation.Batch
}

// NewBatchRepo creates an empty BatchRepo
func NewBatchRepo() *BatchRepo {
	return &BatchRepo{Batches: make(map[uuid.UUID]*cultivation.Batch)}
}

func (r *BatchRepo) FindByID(_ context.Context, id uuid.UUID) (*cultivation.Batch, error) {
	batch, ok := r.Batches[id]
	if !ok {
		return nil, shared.NewNotFoundError("batch")
	}
	return batch, nil
}

func (r *BatchRepo) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*cultivation.Batch, error) {
	batch, ok := r.Batches[id]
	if !ok || batch.TenantID != tenantID {
		return nil, shared.NewNotFoundError("batch")
	}
	return batch, nil
}

func (r *BatchRepo) FindByStatus(_ context.Context, tenantID uuid.UUID, status cultivation.BatchStatus, _ shared.Filter) ([]cultivation.Batch, error) {
	var result []cultivation.Batch
	for _, b := range r.Batches {
		if b.TenantID == tenantID && b.Status == status {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *BatchRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]cultivation.Batch, error) {
	var result []cultivation.Batch
	for _, b := range r.Batches {
		if b.TenantID == tenantID {
			result = append(result, *b)
		}
	}
	return result, nil
}

func (r *BatchRepo) Save(_ context.Context, batch *cultivation.Batch) error {
	r.Batches[batch.ID] = batch
	return nil
}

func (r *BatchRepo) SaveWithLock(_ context.Context, batch *cultivation.Batch) error {
	r.Batches[batch.ID] = batch
	return nil
}

func (r *BatchRepo) CountForTenant(_ context.Context, tenantID uuid.UUID, _ shared.Filter) (int64, error) {
	var n int64
	for _, b := range r.Batches {
		if b.TenantID == tenantID {
			n++
		}
	}
	return n, nil
}

// PlantRepo is an in-memory cultivation.PlantRepository
type PlantRepo struct {
	Plants map[uuid.UUID]*cultivation.Plant
}

// NewPlantRepo creates an empty PlantRepo
func NewPlantRepo() *PlantRepo {
	return &PlantRepo{Plants: make(map[uuid.UUID]*cultivation.Plant)}
}

func (r *PlantRepo) FindByID(_ context.Context, id uuid.UUID) (*cultivation.Plant, error) {
	plant, ok := r.Plants[id]
	if !ok {
		return nil, shared.NewNotFoundError("plant")
	}
	return plant, nil
}

func (r *PlantRepo) FindByBatch(_ context.Context, tenantID, batchID uuid.UUID) ([]cultivation.Plant, error) {
	var result []cultivation.Plant
	for _, p := range r.Plants {
		if p.TenantID == tenantID && p.BatchID == batchID {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *PlantRepo) FindAliveByBatch(_ context.Context, tenantID, batchID uuid.UUID) ([]cultivation.Plant, error) {
	var result []cultivation.Plant
	for _, p := range r.Plants {
		if p.TenantID == tenantID && p.BatchID == batchID && p.IsAlive() {
			result = append(result, *p)
		}
	}
	return result, nil
}

func (r *PlantRepo) Save(_ context.Context, plant *cultivation.Plant) error {
	r.Plants[plant.ID] = plant
	return nil
}

func (r *PlantRepo) SaveAll(_ context.Context, plants []*cultivation.Plant) error {
	for _, p := range plants {
		r.Plants[p.ID] = p
	}
	return nil
}

func (r *PlantRepo) CountAliveByBatch(_ context.Context, tenantID, batchID uuid.UUID) (int64, error) {
	var n int64
	for _, p := range r.Plants {
		if p.TenantID == tenantID && p.BatchID == batchID && p.IsAlive() {
			n++
		}
	}
	return n, nil
}

// ProductReader is an in-memory catalog.ProductReader
type ProductReader struct {
	Products map[uuid.UUID]*catalog.Product
}

// NewProductReader creates an empty ProductReader
func NewProductReader() *ProductReader {
	return &ProductReader{Products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *ProductReader) FindByIDForTenant(_ context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	product, ok := r.Products[id]
	if !ok || product.TenantID != tenantID {
		return nil, shared.NewNotFoundError("product")
	}
	return product, nil
}

// Add registers a product
func (r *ProductReader) Add(product *catalog.Product) {
	r.Products[product.ID] = product
}
