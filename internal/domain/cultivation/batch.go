package cultivation

import (
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle status of a production batch
type BatchStatus string

const (
	BatchStatusActive    BatchStatus = "active"
	BatchStatusHarvested BatchStatus = "harvested"
	BatchStatusLost      BatchStatus = "lost"
	BatchStatusSplit     BatchStatus = "split"
	BatchStatusMerged    BatchStatus = "merged"
	BatchStatusArchived  BatchStatus = "archived"
)

// IsValid returns true if the batch status is a known one
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusActive, BatchStatusHarvested, BatchStatusLost,
		BatchStatusSplit, BatchStatusMerged, BatchStatusArchived:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that stop active mutation
func (s BatchStatus) IsTerminal() bool {
	return s != BatchStatusActive
}

// GrowthPhase represents a cultivation phase
type GrowthPhase string

const (
	PhaseGermination GrowthPhase = "germination"
	PhasePropagation GrowthPhase = "propagation"
	PhaseSeedling    GrowthPhase = "seedling"
	PhaseVegetative  GrowthPhase = "vegetative"
	PhaseFlowering   GrowthPhase = "flowering"
	PhaseRipening    GrowthPhase = "ripening"
	PhaseHarvested   GrowthPhase = "harvested"
)

// IsValid returns true if the phase is a known one
func (p GrowthPhase) IsValid() bool {
	switch p {
	case PhaseGermination, PhasePropagation, PhaseSeedling,
		PhaseVegetative, PhaseFlowering, PhaseRipening, PhaseHarvested:
		return true
	}
	return false
}

// Batch is an aggregate of growing units tracked through phases.
// Quantity and phase fields are mutated only by the lifecycle
// operations; inventory effects of those operations go through the
// movement ledger, never directly from here.
type Batch struct {
	shared.TenantAggregateRoot
	Name                     string          `gorm:"type:varchar(255);not null"`
	ProductID                uuid.UUID       `gorm:"type:uuid;not null;index"`
	FacilityID               uuid.UUID       `gorm:"type:uuid;not null;index"`
	AreaID                   uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status                   BatchStatus     `gorm:"type:varchar(20);not null;default:'active';index"`
	CurrentPhase             GrowthPhase     `gorm:"type:varchar(30);not null"`
	InitialQuantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CurrentQuantity          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LostQuantity             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	MortalityRate            decimal.Decimal `gorm:"type:decimal(8,4);not null;default:0"`
	EnableIndividualTracking bool            `gorm:"not null;default:false"`
	StartDate                time.Time       `gorm:"type:timestamptz;not null"`
	HarvestDate              *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Batch) TableName() string {
	return "batches"
}

// NewBatchParams carries the attributes needed to create a batch
type NewBatchParams struct {
	Name                     string
	ProductID                uuid.UUID
	FacilityID               uuid.UUID
	AreaID                   uuid.UUID
	InitialPhase             GrowthPhase
	InitialQuantity          decimal.Decimal
	EnableIndividualTracking bool
	StartDate                time.Time
}

// NewBatch creates a new active batch
func NewBatch(tenantID uuid.UUID, params NewBatchParams) (*Batch, error) {
	if params.Name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Batch name cannot be empty")
	}
	if params.ProductID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if params.AreaID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_AREA", "Area ID cannot be empty")
	}
	if !params.InitialPhase.IsValid() {
		return nil, shared.NewDomainError("INVALID_PHASE", "Unknown growth phase")
	}
	if params.InitialQuantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity must be positive")
	}

	start := params.StartDate
	if start.IsZero() {
		start = time.Now()
	}

	return &Batch{
		TenantAggregateRoot:      shared.NewTenantAggregateRoot(tenantID),
		Name:                     params.Name,
		ProductID:                params.ProductID,
		FacilityID:               params.FacilityID,
		AreaID:                   params.AreaID,
		Status:                   BatchStatusActive,
		CurrentPhase:             params.InitialPhase,
		InitialQuantity:          params.InitialQuantity,
		CurrentQuantity:          params.InitialQuantity,
		LostQuantity:             decimal.Zero,
		MortalityRate:            decimal.Zero,
		EnableIndividualTracking: params.EnableIndividualTracking,
		StartDate:                start,
	}, nil
}

// IsActive returns true if the batch still accepts lifecycle mutation
func (b *Batch) IsActive() bool {
	return b.Status == BatchStatusActive
}

// requireActive guards lifecycle mutations
func (b *Batch) requireActive() error {
	if !b.IsActive() {
		return shared.NewInvalidOperationError("Batch is " + string(b.Status) + ", only active batches can be modified")
	}
	return nil
}

// recomputeMortality derives mortality_rate from lost/initial.
// Recomputed on every loss-affecting mutation.
func (b *Batch) recomputeMortality() {
	if b.InitialQuantity.IsZero() {
		b.MortalityRate = decimal.Zero
		return
	}
	b.MortalityRate = b.LostQuantity.Div(b.InitialQuantity).Mul(decimal.NewFromInt(100)).Round(4)
}

// TransitionPhase moves the batch to a new phase, setting the surviving
// quantity and accumulating any loss.
func (b *Batch) TransitionPhase(newPhase GrowthPhase, targetQuantity, lossQuantity decimal.Decimal) error {
	if err := b.requireActive(); err != nil {
		return err
	}
	if !newPhase.IsValid() {
		return shared.NewDomainError("INVALID_PHASE", "Unknown growth phase")
	}
	if targetQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Target quantity cannot be negative")
	}
	if lossQuantity.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Loss quantity cannot be negative")
	}

	previousPhase := b.CurrentPhase
	b.CurrentPhase = newPhase
	b.CurrentQuantity = targetQuantity
	if lossQuantity.GreaterThan(decimal.Zero) {
		b.LostQuantity = b.LostQuantity.Add(lossQuantity)
		b.recomputeMortality()
	}
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchPhaseChangedEvent(b, previousPhase, newPhase, lossQuantity))

	return nil
}

// RecordLoss accumulates lost units without a phase change
func (b *Batch) RecordLoss(lossQuantity decimal.Decimal, reason string) error {
	if err := b.requireActive(); err != nil {
		return err
	}
	if lossQuantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Loss quantity must be positive")
	}
	if lossQuantity.GreaterThan(b.CurrentQuantity) {
		return shared.NewDomainError("INVALID_QUANTITY", "Loss quantity exceeds current quantity")
	}

	b.CurrentQuantity = b.CurrentQuantity.Sub(lossQuantity)
	b.LostQuantity = b.LostQuantity.Add(lossQuantity)
	b.recomputeMortality()
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	if b.CurrentQuantity.IsZero() {
		b.Status = BatchStatusLost
	}

	b.AddDomainEvent(NewBatchLossRecordedEvent(b, lossQuantity, reason))

	return nil
}

// Harvest closes the batch: terminal status, harvested phase, zero
// quantity, harvest date stamped.
func (b *Batch) Harvest(harvestDate time.Time) error {
	if err := b.requireActive(); err != nil {
		return err
	}

	if harvestDate.IsZero() {
		harvestDate = time.Now()
	}

	b.Status = BatchStatusHarvested
	b.CurrentPhase = PhaseHarvested
	b.CurrentQuantity = decimal.Zero
	b.HarvestDate = &harvestDate
	b.UpdatedAt = time.Now()
	b.IncrementVersion()

	b.AddDomainEvent(NewBatchHarvestedEvent(b, harvestDate))

	return nil
}

// Archive retires a batch that is no longer actively tracked
func (b *Batch) Archive() error {
	if b.Status == BatchStatusArchived {
		return shared.NewInvalidOperationError("Batch is already archived")
	}
	b.Status = BatchStatusArchived
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}
