package cultivation

import (
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
)

// PlantStatus represents the status of an individually tracked plant
type PlantStatus string

const (
	PlantStatusAlive     PlantStatus = "alive"
	PlantStatusDead      PlantStatus = "dead"
	PlantStatusHarvested PlantStatus = "harvested"
	PlantStatusRemoved   PlantStatus = "removed"
)

// IsValid returns true if the plant status is a known one
func (s PlantStatus) IsValid() bool {
	switch s {
	case PlantStatusAlive, PlantStatusDead, PlantStatusHarvested, PlantStatusRemoved:
		return true
	}
	return false
}

// Plant is one individually tracked unit within a batch. Only present
// when the batch enables individual tracking; its stage follows the
// batch phase on transitions.
type Plant struct {
	shared.TenantAggregateRoot
	BatchID    uuid.UUID   `gorm:"type:uuid;not null;index"`
	Tag        string      `gorm:"type:varchar(50);not null"` // Physical tag code
	PlantStage GrowthPhase `gorm:"type:varchar(30);not null"`
	Status     PlantStatus `gorm:"type:varchar(20);not null;default:'alive';index"`
	DiedAt     *time.Time  `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Plant) TableName() string {
	return "plants"
}

// NewPlant creates a plant under a batch
func NewPlant(tenantID, batchID uuid.UUID, tag string, stage GrowthPhase) (*Plant, error) {
	if batchID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_BATCH", "Batch ID cannot be empty")
	}
	if tag == "" {
		return nil, shared.NewDomainError("INVALID_TAG", "Plant tag cannot be empty")
	}
	if !stage.IsValid() {
		return nil, shared.NewDomainError("INVALID_PHASE", "Unknown growth phase")
	}

	return &Plant{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BatchID:             batchID,
		Tag:                 tag,
		PlantStage:          stage,
		Status:              PlantStatusAlive,
	}, nil
}

// IsAlive returns true if the plant is still growing
func (p *Plant) IsAlive() bool {
	return p.Status == PlantStatusAlive
}

// AdvanceStage follows a batch phase transition
func (p *Plant) AdvanceStage(stage GrowthPhase) error {
	if !stage.IsValid() {
		return shared.NewDomainError("INVALID_PHASE", "Unknown growth phase")
	}
	if !p.IsAlive() {
		return shared.NewInvalidOperationError("Plant is " + string(p.Status) + " and cannot change stage")
	}
	p.PlantStage = stage
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkHarvested follows a batch harvest
func (p *Plant) MarkHarvested() error {
	if !p.IsAlive() {
		return shared.NewInvalidOperationError("Plant is " + string(p.Status) + " and cannot be harvested")
	}
	p.Status = PlantStatusHarvested
	p.PlantStage = PhaseHarvested
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// MarkDead records a mortality event for the plant
func (p *Plant) MarkDead(at time.Time) error {
	if !p.IsAlive() {
		return shared.NewInvalidOperationError("Plant is already " + string(p.Status))
	}
	if at.IsZero() {
		at = time.Now()
	}
	p.Status = PlantStatusDead
	p.DiedAt = &at
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}
