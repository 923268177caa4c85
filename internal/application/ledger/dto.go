package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// MovementRequest is the argument contract for RecordMovement. One
// request applies exactly one movement; the movement type selects which
// fields are read.
type MovementRequest struct {
	MovementType inventory.MovementType `json:"movementType" binding:"required"`

	ProductID       uuid.UUID  `json:"productId"`
	InventoryItemID *uuid.UUID `json:"inventoryItemId,omitempty"`
	FacilityID      uuid.UUID  `json:"facilityId"`
	AreaID          uuid.UUID  `json:"areaId"`

	Quantity     decimal.Decimal `json:"quantity"`
	QuantityUnit string          `json:"quantityUnit"`

	// Receipt fields
	SupplierID        *uuid.UUID       `json:"supplierId,omitempty"`
	BatchNumber       string           `json:"batchNumber,omitempty"`
	SupplierLotNumber string           `json:"supplierLotNumber,omitempty"`
	ReceivedDate      *time.Time       `json:"receivedDate,omitempty"`
	ManufacturingDate *time.Time       `json:"manufacturingDate,omitempty"`
	ExpirationDate    *time.Time       `json:"expirationDate,omitempty"`
	PurchasePrice     *decimal.Decimal `json:"purchasePrice,omitempty"`
	CostPerUnit       *decimal.Decimal `json:"costPerUnit,omitempty"`

	// Correction field (absolute, not a delta)
	NewQuantity *decimal.Decimal `json:"newQuantity,omitempty"`

	// Transfer field
	DestinationAreaID *uuid.UUID `json:"destinationAreaId,omitempty"`

	// Decrease movement fields
	LotSelectionMode inventory.LotSelectionMode `json:"lotSelectionMode,omitempty"`

	// Transformation fields
	TransformationType inventory.TransformationType `json:"transformationType,omitempty"`
	TargetProductID    *uuid.UUID                   `json:"targetProductId,omitempty"`
	TargetQuantity     *decimal.Decimal             `json:"targetQuantity,omitempty"`
	TargetQuantityUnit string                       `json:"targetQuantityUnit,omitempty"`
	SourceBatchID      *uuid.UUID                   `json:"sourceBatchId,omitempty"`

	Reason      string     `json:"reason,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	PerformedBy *uuid.UUID `json:"performedBy,omitempty"`
}

// MovementResult is the return shape of RecordMovement. QuantityChange
// is signed: negative for consumption-like movements, positive for
// receipts, zero net for transfers considered system-wide.
type MovementResult struct {
	ActivityID      uuid.UUID              `json:"activityId"`
	MovementType    inventory.MovementType `json:"movementType"`
	InventoryItemID *uuid.UUID             `json:"inventoryItemId,omitempty"`
	TargetItemID    *uuid.UUID             `json:"targetItemId,omitempty"`
	QuantityChange  decimal.Decimal        `json:"quantityChange"`
	BatchNumber     string                 `json:"batchNumber,omitempty"`
	LotsTouched     int                    `json:"lotsTouched,omitempty"`
}

// InventoryItemResponse is the read model for a lot
type InventoryItemResponse struct {
	ID                   uuid.UUID        `json:"id"`
	ProductID            uuid.UUID        `json:"productId"`
	FacilityID           uuid.UUID        `json:"facilityId"`
	AreaID               uuid.UUID        `json:"areaId"`
	QuantityAvailable    decimal.Decimal  `json:"quantityAvailable"`
	QuantityUnit         string           `json:"quantityUnit"`
	BatchNumber          string           `json:"batchNumber"`
	SupplierLotNumber    string           `json:"supplierLotNumber,omitempty"`
	SupplierID           *uuid.UUID       `json:"supplierId,omitempty"`
	ReceivedDate         time.Time        `json:"receivedDate"`
	ExpirationDate       *time.Time       `json:"expirationDate,omitempty"`
	CostPerUnit          decimal.Decimal  `json:"costPerUnit"`
	TotalValue           decimal.Decimal  `json:"totalValue"`
	LotStatus            string           `json:"lotStatus"`
	SourceType           string           `json:"sourceType"`
	SourceBatchID        *uuid.UUID       `json:"sourceBatchId,omitempty"`
	TransformationStatus string           `json:"transformationStatus,omitempty"`
	TransformedToItemID  *uuid.UUID       `json:"transformedToItemId,omitempty"`
	CreatedByActivityID  *uuid.UUID       `json:"createdByActivityId,omitempty"`
	CreatedAt            time.Time        `json:"createdAt"`
	UpdatedAt            time.Time        `json:"updatedAt"`
}

// ToInventoryItemResponse maps a lot to its read model
func ToInventoryItemResponse(item *inventory.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:                   item.ID,
		ProductID:            item.ProductID,
		FacilityID:           item.FacilityID,
		AreaID:               item.AreaID,
		QuantityAvailable:    item.QuantityAvailable,
		QuantityUnit:         item.QuantityUnit,
		BatchNumber:          item.BatchNumber,
		SupplierLotNumber:    item.SupplierLotNumber,
		SupplierID:           item.SupplierID,
		ReceivedDate:         item.ReceivedDate,
		ExpirationDate:       item.ExpirationDate,
		CostPerUnit:          item.CostPerUnit,
		TotalValue:           item.TotalValue(),
		LotStatus:            string(item.LotStatus),
		SourceType:           string(item.SourceType),
		TransformationStatus: string(item.TransformationStatus),
		TransformedToItemID:  item.TransformedToItemID,
		SourceBatchID:        item.SourceBatchID,
		CreatedByActivityID:  item.CreatedByActivityID,
		CreatedAt:            item.CreatedAt,
		UpdatedAt:            item.UpdatedAt,
	}
}

// ActivityResponse is the read model for a journal entry
type ActivityResponse struct {
	ID                uuid.UUID                   `json:"id"`
	ActivityType      string                      `json:"activityType"`
	EntityType        string                      `json:"entityType,omitempty"`
	EntityID          *uuid.UUID                  `json:"entityId,omitempty"`
	FacilityID        uuid.UUID                   `json:"facilityId"`
	AreaID            *uuid.UUID                  `json:"areaId,omitempty"`
	BatchID           *uuid.UUID                  `json:"batchId,omitempty"`
	PerformedAt       time.Time                   `json:"performedAt"`
	PerformedBy       *uuid.UUID                  `json:"performedBy,omitempty"`
	QuantityBefore    decimal.Decimal             `json:"quantityBefore"`
	QuantityAfter     decimal.Decimal             `json:"quantityAfter"`
	MaterialsConsumed []inventory.MaterialConsumed `json:"materialsConsumed,omitempty"`
	MaterialsProduced []inventory.MaterialProduced `json:"materialsProduced,omitempty"`
	Reason            string                      `json:"reason,omitempty"`
	Notes             string                      `json:"notes,omitempty"`
}

// ToActivityResponse maps an activity to its read model
func ToActivityResponse(a *inventory.Activity) ActivityResponse {
	return ActivityResponse{
		ID:                a.ID,
		ActivityType:      string(a.ActivityType),
		EntityType:        a.EntityType,
		EntityID:          a.EntityID,
		FacilityID:        a.FacilityID,
		AreaID:            a.AreaID,
		BatchID:           a.BatchID,
		PerformedAt:       a.PerformedAt,
		PerformedBy:       a.PerformedBy,
		QuantityBefore:    a.QuantityBefore,
		QuantityAfter:     a.QuantityAfter,
		MaterialsConsumed: a.MaterialsConsumed,
		MaterialsProduced: a.MaterialsProduced,
		Reason:            a.Reason,
		Notes:             a.Notes,
	}
}

// ItemListFilter narrows lot listings
type ItemListFilter struct {
	Page       int
	PageSize   int
	ProductID  *uuid.UUID
	FacilityID *uuid.UUID
	AreaID     *uuid.UUID
	HasStock   *bool
}

// ActivityListFilter narrows activity listings
type ActivityListFilter struct {
	Page         int
	PageSize     int
	ActivityType *inventory.ActivityType
	EntityType   string
	EntityID     *uuid.UUID
	BatchID      *uuid.UUID
	StartDate    *time.Time
	EndDate      *time.Time
}
