package cultivation

import (
	"time"

	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeBatch = "Batch"

// Event type constants
const (
	EventTypeBatchPhaseChanged = "BatchPhaseChanged"
	EventTypeBatchLossRecorded = "BatchLossRecorded"
	EventTypeBatchHarvested    = "BatchHarvested"
)

// BatchPhaseChangedEvent is raised when a batch moves to a new phase
type BatchPhaseChangedEvent struct {
	shared.BaseDomainEvent
	PreviousPhase   GrowthPhase     `json:"previous_phase"`
	NewPhase        GrowthPhase     `json:"new_phase"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	LossQuantity    decimal.Decimal `json:"loss_quantity"`
	MortalityRate   decimal.Decimal `json:"mortality_rate"`
}

// NewBatchPhaseChangedEvent creates a new BatchPhaseChangedEvent
func NewBatchPhaseChangedEvent(batch *Batch, previous, next GrowthPhase, loss decimal.Decimal) *BatchPhaseChangedEvent {
	return &BatchPhaseChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchPhaseChanged, AggregateTypeBatch, batch.ID, batch.TenantID),
		PreviousPhase:   previous,
		NewPhase:        next,
		CurrentQuantity: batch.CurrentQuantity,
		LossQuantity:    loss,
		MortalityRate:   batch.MortalityRate,
	}
}

// EventType returns the event type name
func (e *BatchPhaseChangedEvent) EventType() string {
	return EventTypeBatchPhaseChanged
}

// BatchLossRecordedEvent is raised when units are lost without a phase
// change
type BatchLossRecordedEvent struct {
	shared.BaseDomainEvent
	LossQuantity    decimal.Decimal `json:"loss_quantity"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
	MortalityRate   decimal.Decimal `json:"mortality_rate"`
	Reason          string          `json:"reason"`
}

// NewBatchLossRecordedEvent creates a new BatchLossRecordedEvent
func NewBatchLossRecordedEvent(batch *Batch, loss decimal.Decimal, reason string) *BatchLossRecordedEvent {
	return &BatchLossRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchLossRecorded, AggregateTypeBatch, batch.ID, batch.TenantID),
		LossQuantity:    loss,
		CurrentQuantity: batch.CurrentQuantity,
		MortalityRate:   batch.MortalityRate,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *BatchLossRecordedEvent) EventType() string {
	return EventTypeBatchLossRecorded
}

// BatchHarvestedEvent is raised when a batch is harvested
type BatchHarvestedEvent struct {
	shared.BaseDomainEvent
	HarvestDate   time.Time       `json:"harvest_date"`
	MortalityRate decimal.Decimal `json:"mortality_rate"`
}

// NewBatchHarvestedEvent creates a new BatchHarvestedEvent
func NewBatchHarvestedEvent(batch *Batch, harvestDate time.Time) *BatchHarvestedEvent {
	return &BatchHarvestedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchHarvested, AggregateTypeBatch, batch.ID, batch.TenantID),
		HarvestDate:     harvestDate,
		MortalityRate:   batch.MortalityRate,
	}
}

// EventType returns the event type name
func (e *BatchHarvestedEvent) EventType() string {
	return EventTypeBatchHarvested
}
