package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LotStatus represents the availability status of an inventory lot
type LotStatus string

const (
	LotStatusAvailable    LotStatus = "available"
	LotStatusReserved     LotStatus = "reserved"
	LotStatusExpired      LotStatus = "expired"
	LotStatusQuarantine   LotStatus = "quarantine"
	LotStatusDiscontinued LotStatus = "discontinued"
)

// IsValid returns true if the lot status is a known one
func (s LotStatus) IsValid() bool {
	switch s {
	case LotStatusAvailable, LotStatusReserved, LotStatusExpired, LotStatusQuarantine, LotStatusDiscontinued:
		return true
	}
	return false
}

// SourceType describes how a lot entered inventory
type SourceType string

const (
	SourceTypePurchase   SourceType = "purchase"
	SourceTypeProduction SourceType = "production"
	SourceTypeTransfer   SourceType = "transfer"
)

// IsValid returns true if the source type is a known one
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypePurchase, SourceTypeProduction, SourceTypeTransfer:
		return true
	}
	return false
}

// TransformationStatus is the terminal marker of a lot that has been
// converted into a different product. Empty means the lot is active.
// The transition active -> transformed|harvested is one-way; a terminal
// lot is a read-only historical artifact.
type TransformationStatus string

const (
	TransformationStatusNone        TransformationStatus = ""
	TransformationStatusTransformed TransformationStatus = "transformed"
	TransformationStatusHarvested   TransformationStatus = "harvested"
)

// IsTerminal returns true for transformed/harvested
func (s TransformationStatus) IsTerminal() bool {
	return s == TransformationStatusTransformed || s == TransformationStatusHarvested
}

// InventoryItem represents one lot: a quantity of one product at one
// location with one provenance. It is the aggregate root for all
// inventory movements; only ledger operations mutate quantity and
// status fields.
type InventoryItem struct {
	shared.TenantAggregateRoot
	ProductID         uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_item_product"`
	FacilityID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_item_facility"`
	AreaID            uuid.UUID       `gorm:"type:uuid;not null;index:idx_inventory_item_area"`
	QuantityAvailable decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityReserved  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityCommitted decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	QuantityUnit      string          `gorm:"type:varchar(20);not null"`
	BatchNumber       string          `gorm:"type:varchar(50);not null;index"` // Internal lot code
	SupplierLotNumber string          `gorm:"type:varchar(100)"`               // External supplier lot code
	SupplierID        *uuid.UUID      `gorm:"type:uuid"`
	ReceivedDate      time.Time       `gorm:"type:timestamptz;not null;index"`
	ManufacturingDate *time.Time      `gorm:"type:timestamptz"`
	ExpirationDate    *time.Time      `gorm:"type:timestamptz;index"`
	PurchasePrice     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CostPerUnit       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LotStatus         LotStatus       `gorm:"type:varchar(20);not null;default:'available';index"`
	SourceType        SourceType      `gorm:"type:varchar(20);not null"`
	SourceBatchID     *uuid.UUID      `gorm:"type:uuid;index"` // Production batch this lot came from

	// Transformation chain. Once terminal, QuantityAvailable is
	// permanently zero and the pointers below are never rewritten.
	TransformationStatus    TransformationStatus `gorm:"type:varchar(20);not null;default:''"`
	TransformedToItemID     *uuid.UUID           `gorm:"type:uuid"`
	TransformedByActivityID *uuid.UUID           `gorm:"type:uuid"`
	CreatedByActivityID     *uuid.UUID           `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (InventoryItem) TableName() string {
	return "inventory_items"
}

// NewItemParams carries the attributes needed to create a lot
type NewItemParams struct {
	ProductID         uuid.UUID
	FacilityID        uuid.UUID
	AreaID            uuid.UUID
	Quantity          decimal.Decimal
	QuantityUnit      string
	BatchNumber       string
	SupplierLotNumber string
	SupplierID        *uuid.UUID
	ReceivedDate      time.Time
	ManufacturingDate *time.Time
	ExpirationDate    *time.Time
	PurchasePrice     decimal.Decimal
	CostPerUnit       decimal.Decimal
	SourceType        SourceType
	SourceBatchID     *uuid.UUID
}

// NewInventoryItem creates a new lot
func NewInventoryItem(tenantID uuid.UUID, params NewItemParams) (*InventoryItem, error) {
	if params.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if params.AreaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AREA", "Area ID cannot be empty")
	}
	if params.Quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if params.QuantityUnit == "" {
		return nil, shared.NewDomainError("INVALID_UNIT", "Quantity unit cannot be empty")
	}
	if params.BatchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if !params.SourceType.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE_TYPE", "Unknown source type")
	}

	received := params.ReceivedDate
	if received.IsZero() {
		received = time.Now()
	}

	item := &InventoryItem{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ProductID:           params.ProductID,
		FacilityID:          params.FacilityID,
		AreaID:              params.AreaID,
		QuantityAvailable:   params.Quantity,
		QuantityReserved:    decimal.Zero,
		QuantityCommitted:   decimal.Zero,
		QuantityUnit:        params.QuantityUnit,
		BatchNumber:         params.BatchNumber,
		SupplierLotNumber:   params.SupplierLotNumber,
		SupplierID:          params.SupplierID,
		ReceivedDate:        received,
		ManufacturingDate:   params.ManufacturingDate,
		ExpirationDate:      params.ExpirationDate,
		PurchasePrice:       params.PurchasePrice,
		CostPerUnit:         params.CostPerUnit,
		LotStatus:           LotStatusAvailable,
		SourceType:          params.SourceType,
		SourceBatchID:       params.SourceBatchID,
	}

	return item, nil
}

// IsConsumable returns true if the lot is an eligible target for
// consumption-like movements: available status, not terminal, positive
// quantity.
func (i *InventoryItem) IsConsumable() bool {
	return i.LotStatus == LotStatusAvailable &&
		!i.TransformationStatus.IsTerminal() &&
		i.QuantityAvailable.GreaterThan(decimal.Zero)
}

// CanFulfill returns true if the available quantity covers the request
func (i *InventoryItem) CanFulfill(quantity decimal.Decimal) bool {
	return i.QuantityAvailable.GreaterThanOrEqual(quantity)
}

// IsExpired returns true if the lot has an expiration date in the past
func (i *InventoryItem) IsExpired() bool {
	if i.ExpirationDate == nil {
		return false
	}
	return i.ExpirationDate.Before(time.Now())
}

// Deduct removes quantity from the lot. The caller names the movement
// type so the emitted event carries it.
func (i *InventoryItem) Deduct(quantity decimal.Decimal, movement MovementType) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.TransformationStatus.IsTerminal() {
		return shared.NewInvalidOperationError("Lot has been " + string(i.TransformationStatus) + " and is immutable")
	}
	if i.QuantityAvailable.LessThan(quantity) {
		return NewInsufficientStockError(i.QuantityAvailable, quantity)
	}

	before := i.QuantityAvailable
	i.QuantityAvailable = i.QuantityAvailable.Sub(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockConsumedEvent(i, movement, quantity, before, i.QuantityAvailable))

	if i.QuantityAvailable.IsZero() {
		i.AddDomainEvent(NewStockDepletedEvent(i))
	}

	return nil
}

// SetQuantity sets the available quantity to an absolute value
// (physical-count correction). Increases are permitted; no
// insufficient-stock check applies. Returns the signed change.
func (i *InventoryItem) SetQuantity(newQuantity decimal.Decimal, reason string) (decimal.Decimal, error) {
	if newQuantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Corrected quantity cannot be negative")
	}
	if reason == "" {
		return decimal.Zero, shared.NewDomainError("INVALID_REASON", "Correction reason is required")
	}
	if i.TransformationStatus.IsTerminal() {
		return decimal.Zero, shared.NewInvalidOperationError("Lot has been " + string(i.TransformationStatus) + " and is immutable")
	}

	before := i.QuantityAvailable
	change := newQuantity.Sub(before)

	i.QuantityAvailable = newQuantity
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewStockCorrectedEvent(i, before, newQuantity, change, reason))

	return change, nil
}

// MergeIn adds quantity to the lot. Used when a transfer lands on an
// existing lot with the same product, area, batch number and status,
// instead of creating a duplicate row.
func (i *InventoryItem) MergeIn(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if i.TransformationStatus.IsTerminal() {
		return shared.NewInvalidOperationError("Lot has been " + string(i.TransformationStatus) + " and is immutable")
	}

	i.QuantityAvailable = i.QuantityAvailable.Add(quantity)
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkTransformed zeroes the lot and freezes it with a terminal
// transformation status, recording the forward pointers to the item it
// became and the activity that did it. One-way: a terminal lot can
// never be transformed again.
func (i *InventoryItem) MarkTransformed(status TransformationStatus, targetItemID, activityID uuid.UUID) error {
	if !status.IsTerminal() {
		return shared.NewDomainError("INVALID_TRANSFORMATION_STATUS", "Transformation status must be terminal")
	}
	if i.TransformationStatus.IsTerminal() {
		return shared.NewInvalidOperationError("Lot has already been " + string(i.TransformationStatus))
	}
	if targetItemID == uuid.Nil || activityID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Target item and activity references are required")
	}

	before := i.QuantityAvailable
	i.QuantityAvailable = decimal.Zero
	i.TransformationStatus = status
	i.TransformedToItemID = &targetItemID
	i.TransformedByActivityID = &activityID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	i.AddDomainEvent(NewLotTransformedEvent(i, status, before, targetItemID, activityID))

	return nil
}

// SetCreatedBy records the activity that created this lot (receipt or
// transformation output). Set once at creation time.
func (i *InventoryItem) SetCreatedBy(activityID uuid.UUID) {
	i.CreatedByActivityID = &activityID
}

// Relocate changes the area of the lot within the same facility
func (i *InventoryItem) Relocate(areaID uuid.UUID) error {
	if areaID == uuid.Nil {
		return shared.NewDomainError("INVALID_AREA", "Area ID cannot be empty")
	}
	if i.TransformationStatus.IsTerminal() {
		return shared.NewInvalidOperationError("Lot has been " + string(i.TransformationStatus) + " and is immutable")
	}

	i.AreaID = areaID
	i.UpdatedAt = time.Now()
	i.IncrementVersion()

	return nil
}

// MarkExpired flags the lot as expired so it no longer participates in
// FIFO selection
func (i *InventoryItem) MarkExpired() {
	if i.LotStatus == LotStatusAvailable {
		i.LotStatus = LotStatusExpired
		i.UpdatedAt = time.Now()
		i.IncrementVersion()
	}
}

// TotalValue returns the current value of the lot
func (i *InventoryItem) TotalValue() decimal.Decimal {
	return i.QuantityAvailable.Mul(i.CostPerUnit)
}
