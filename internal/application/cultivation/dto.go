package cultivation

import (
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/shopspring/decimal"
)

// CreateBatchRequest creates a new production batch
type CreateBatchRequest struct {
	Name                     string                  `json:"name" binding:"required"`
	ProductID                uuid.UUID               `json:"productId" binding:"required"`
	FacilityID               uuid.UUID               `json:"facilityId" binding:"required"`
	AreaID                   uuid.UUID               `json:"areaId" binding:"required"`
	InitialPhase             cultivation.GrowthPhase `json:"initialPhase" binding:"required"`
	InitialQuantity          decimal.Decimal         `json:"initialQuantity" binding:"required"`
	EnableIndividualTracking bool                    `json:"enableIndividualTracking"`
	StartDate                *time.Time              `json:"startDate,omitempty"`
	PlantTags                []string                `json:"plantTags,omitempty"` // Individual tracking only
}

// TransitionPhaseRequest moves a batch to a new phase
type TransitionPhaseRequest struct {
	NewPhase              cultivation.GrowthPhase `json:"newPhase" binding:"required"`
	TargetProductID       uuid.UUID               `json:"targetProductId" binding:"required"`
	TargetQuantity        decimal.Decimal         `json:"targetQuantity" binding:"required"`
	TargetQuantityUnit    string                  `json:"targetQuantityUnit"`
	LossQuantity          decimal.Decimal         `json:"lossQuantity"`
	LossReason            string                  `json:"lossReason,omitempty"`
	SourceInventoryItemID *uuid.UUID              `json:"sourceInventoryItemId,omitempty"`
	PerformedBy           *uuid.UUID              `json:"performedBy,omitempty"`
	Notes                 string                  `json:"notes,omitempty"`
}

// HarvestRequest closes a batch and produces plant material
type HarvestRequest struct {
	TargetProductID       uuid.UUID       `json:"targetProductId" binding:"required"`
	PlantsHarvested       decimal.Decimal `json:"plantsHarvested" binding:"required"`
	YieldQuantity         decimal.Decimal `json:"yieldQuantity" binding:"required"`
	YieldUnit             string          `json:"yieldUnit" binding:"required"`
	HarvestDate           *time.Time      `json:"harvestDate,omitempty"`
	SourceInventoryItemID *uuid.UUID      `json:"sourceInventoryItemId,omitempty"`
	PerformedBy           *uuid.UUID      `json:"performedBy,omitempty"`
	Notes                 string          `json:"notes,omitempty"`
}

// BatchResponse is the read model for a batch
type BatchResponse struct {
	ID                       uuid.UUID       `json:"id"`
	Name                     string          `json:"name"`
	ProductID                uuid.UUID       `json:"productId"`
	FacilityID               uuid.UUID       `json:"facilityId"`
	AreaID                   uuid.UUID       `json:"areaId"`
	Status                   string          `json:"status"`
	CurrentPhase             string          `json:"currentPhase"`
	InitialQuantity          decimal.Decimal `json:"initialQuantity"`
	CurrentQuantity          decimal.Decimal `json:"currentQuantity"`
	LostQuantity             decimal.Decimal `json:"lostQuantity"`
	MortalityRate            decimal.Decimal `json:"mortalityRate"`
	EnableIndividualTracking bool            `json:"enableIndividualTracking"`
	StartDate                time.Time       `json:"startDate"`
	HarvestDate              *time.Time      `json:"harvestDate,omitempty"`
}

// ToBatchResponse maps a batch to its read model
func ToBatchResponse(batch *cultivation.Batch) BatchResponse {
	return BatchResponse{
		ID:                       batch.ID,
		Name:                     batch.Name,
		ProductID:                batch.ProductID,
		FacilityID:               batch.FacilityID,
		AreaID:                   batch.AreaID,
		Status:                   string(batch.Status),
		CurrentPhase:             string(batch.CurrentPhase),
		InitialQuantity:          batch.InitialQuantity,
		CurrentQuantity:          batch.CurrentQuantity,
		LostQuantity:             batch.LostQuantity,
		MortalityRate:            batch.MortalityRate,
		EnableIndividualTracking: batch.EnableIndividualTracking,
		StartDate:                batch.StartDate,
		HarvestDate:              batch.HarvestDate,
	}
}

// LifecycleResult reports a phase transition or harvest, including the
// inventory transformation when one took place
type LifecycleResult struct {
	Batch            BatchResponse `json:"batch"`
	ActivityID       uuid.UUID     `json:"activityId"`
	SourceItemID     *uuid.UUID    `json:"sourceItemId,omitempty"`
	NewItemID        *uuid.UUID    `json:"newItemId,omitempty"`
	NewBatchNumber   string        `json:"newBatchNumber,omitempty"`
	PlantsPropagated int           `json:"plantsPropagated,omitempty"`
}
