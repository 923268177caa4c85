package inventory

import (
	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeInventoryItem = "InventoryItem"
	AggregateTypeActivity      = "Activity"
)

// Event type constants
const (
	EventTypeLotReceived    = "LotReceived"
	EventTypeStockConsumed  = "StockConsumed"
	EventTypeStockCorrected = "StockCorrected"
	EventTypeStockDepleted  = "StockDepleted"
	EventTypeLotTransformed = "LotTransformed"
	EventTypeLotTransferred = "LotTransferred"
)

// LotReceivedEvent is raised when a new lot enters inventory
type LotReceivedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	AreaID          uuid.UUID       `json:"area_id"`
	BatchNumber     string          `json:"batch_number"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityUnit    string          `json:"quantity_unit"`
	SourceType      SourceType      `json:"source_type"`
}

// NewLotReceivedEvent creates a new LotReceivedEvent
func NewLotReceivedEvent(item *InventoryItem) *LotReceivedEvent {
	return &LotReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLotReceived, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		AreaID:          item.AreaID,
		BatchNumber:     item.BatchNumber,
		Quantity:        item.QuantityAvailable,
		QuantityUnit:    item.QuantityUnit,
		SourceType:      item.SourceType,
	}
}

// EventType returns the event type name
func (e *LotReceivedEvent) EventType() string {
	return EventTypeLotReceived
}

// StockConsumedEvent is raised when quantity is deducted from a lot
type StockConsumedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	MovementType    MovementType    `json:"movement_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
}

// NewStockConsumedEvent creates a new StockConsumedEvent
func NewStockConsumedEvent(item *InventoryItem, movement MovementType, quantity, before, after decimal.Decimal) *StockConsumedEvent {
	return &StockConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockConsumed, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		BatchNumber:     item.BatchNumber,
		MovementType:    movement,
		Quantity:        quantity,
		QuantityBefore:  before,
		QuantityAfter:   after,
	}
}

// EventType returns the event type name
func (e *StockConsumedEvent) EventType() string {
	return EventTypeStockConsumed
}

// StockCorrectedEvent is raised when a physical count overrides the
// recorded quantity
type StockCorrectedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID       `json:"inventory_item_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	QuantityBefore  decimal.Decimal `json:"quantity_before"`
	QuantityAfter   decimal.Decimal `json:"quantity_after"`
	Change          decimal.Decimal `json:"change"`
	Reason          string          `json:"reason"`
}

// NewStockCorrectedEvent creates a new StockCorrectedEvent
func NewStockCorrectedEvent(item *InventoryItem, before, after, change decimal.Decimal, reason string) *StockCorrectedEvent {
	return &StockCorrectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockCorrected, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		BatchNumber:     item.BatchNumber,
		QuantityBefore:  before,
		QuantityAfter:   after,
		Change:          change,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *StockCorrectedEvent) EventType() string {
	return EventTypeStockCorrected
}

// StockDepletedEvent is raised when a lot reaches zero quantity
type StockDepletedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID `json:"inventory_item_id"`
	ProductID       uuid.UUID `json:"product_id"`
	BatchNumber     string    `json:"batch_number"`
}

// NewStockDepletedEvent creates a new StockDepletedEvent
func NewStockDepletedEvent(item *InventoryItem) *StockDepletedEvent {
	return &StockDepletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockDepleted, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		BatchNumber:     item.BatchNumber,
	}
}

// EventType returns the event type name
func (e *StockDepletedEvent) EventType() string {
	return EventTypeStockDepleted
}

// LotTransformedEvent is raised when a lot is converted into a new
// product and frozen
type LotTransformedEvent struct {
	shared.BaseDomainEvent
	InventoryItemID uuid.UUID            `json:"inventory_item_id"`
	ProductID       uuid.UUID            `json:"product_id"`
	BatchNumber     string               `json:"batch_number"`
	Status          TransformationStatus `json:"status"`
	QuantityBefore  decimal.Decimal      `json:"quantity_before"`
	TargetItemID    uuid.UUID            `json:"target_item_id"`
	ActivityID      uuid.UUID            `json:"activity_id"`
}

// NewLotTransformedEvent creates a new LotTransformedEvent
func NewLotTransformedEvent(item *InventoryItem, status TransformationStatus, before decimal.Decimal, targetItemID, activityID uuid.UUID) *LotTransformedEvent {
	return &LotTransformedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLotTransformed, AggregateTypeInventoryItem, item.ID, item.TenantID),
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		BatchNumber:     item.BatchNumber,
		Status:          status,
		QuantityBefore:  before,
		TargetItemID:    targetItemID,
		ActivityID:      activityID,
	}
}

// EventType returns the event type name
func (e *LotTransformedEvent) EventType() string {
	return EventTypeLotTransformed
}

// LotTransferredEvent is raised when quantity moves from one area to
// another
type LotTransferredEvent struct {
	shared.BaseDomainEvent
	SourceItemID uuid.UUID       `json:"source_item_id"`
	TargetItemID uuid.UUID       `json:"target_item_id"`
	ProductID    uuid.UUID       `json:"product_id"`
	FromAreaID   uuid.UUID       `json:"from_area_id"`
	ToAreaID     uuid.UUID       `json:"to_area_id"`
	Quantity     decimal.Decimal `json:"quantity"`
}

// NewLotTransferredEvent creates a new LotTransferredEvent
func NewLotTransferredEvent(source *InventoryItem, targetItemID, toAreaID uuid.UUID, quantity decimal.Decimal) *LotTransferredEvent {
	return &LotTransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLotTransferred, AggregateTypeInventoryItem, source.ID, source.TenantID),
		SourceItemID:    source.ID,
		TargetItemID:    targetItemID,
		ProductID:       source.ProductID,
		FromAreaID:      source.AreaID,
		ToAreaID:        toAreaID,
		Quantity:        quantity,
	}
}

// EventType returns the event type name
func (e *LotTransferredEvent) EventType() string {
	return EventTypeLotTransferred
}
