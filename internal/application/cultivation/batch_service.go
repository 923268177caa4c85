package cultivation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/application/ledger"
	"github.com/growops/backend/internal/domain/cultivation"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BatchService coordinates batch lifecycle operations with their
// inventory transformations. Batch and plant state changes commit in
// the same transaction as the ledger writes; the service never touches
// lot quantity fields directly, it always goes through the movement
// service's transformation primitive.
type BatchService struct {
	scope          ledger.TransactionScope
	movements      *ledger.MovementService
	eventPublisher shared.EventPublisher
}

// NewBatchService creates a new BatchService
func NewBatchService(scope ledger.TransactionScope, movements *ledger.MovementService) *BatchService {
	return &BatchService{
		scope:     scope,
		movements: movements,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create creates a new batch, with its plants when individual tracking
// is enabled
func (s *BatchService) Create(ctx context.Context, tenantID uuid.UUID, req CreateBatchRequest) (*BatchResponse, error) {
	var response BatchResponse

	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		startDate := timeOrZero(req.StartDate)
		batch, err := cultivation.NewBatch(tenantID, cultivation.NewBatchParams{
			Name:                     req.Name,
			ProductID:                req.ProductID,
			FacilityID:               req.FacilityID,
			AreaID:                   req.AreaID,
			InitialPhase:             req.InitialPhase,
			InitialQuantity:          req.InitialQuantity,
			EnableIndividualTracking: req.EnableIndividualTracking,
			StartDate:                startDate,
		})
		if err != nil {
			return err
		}
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}

		if req.EnableIndividualTracking {
			plants := make([]*cultivation.Plant, 0, len(req.PlantTags))
			for _, tag := range req.PlantTags {
				plant, err := cultivation.NewPlant(tenantID, batch.ID, tag, req.InitialPhase)
				if err != nil {
					return err
				}
				plants = append(plants, plant)
			}
			if len(plants) > 0 {
				if err := repos.PlantRepo().SaveAll(ctx, plants); err != nil {
					return err
				}
			}
		}

		response = ToBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetByID retrieves a batch
func (s *BatchService) GetByID(ctx context.Context, tenantID, batchID uuid.UUID) (*BatchResponse, error) {
	var response BatchResponse
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}
		response = ToBatchResponse(batch)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// List retrieves batches for a tenant
func (s *BatchService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BatchResponse, int64, error) {
	var responses []BatchResponse
	var total int64
	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		batches, err := repos.BatchRepo().FindAllForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		total, err = repos.BatchRepo().CountForTenant(ctx, tenantID, filter)
		if err != nil {
			return err
		}
		responses = make([]BatchResponse, 0, len(batches))
		for i := range batches {
			responses = append(responses, ToBatchResponse(&batches[i]))
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

// TransitionPhase moves an active batch to a new phase. When the batch
// has a linked lot, that lot is transformed to the target product in
// the same transaction; without one, a plain phase_transition activity
// is recorded with no inventory effect.
func (s *BatchService) TransitionPhase(ctx context.Context, tenantID, batchID uuid.UUID, req TransitionPhaseRequest) (*LifecycleResult, error) {
	var result LifecycleResult
	var touched []shared.AggregateRoot

	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}

		source, err := s.locateLinkedItem(ctx, repos, tenantID, batch, req.SourceInventoryItemID)
		if err != nil {
			return err
		}

		if err := batch.TransitionPhase(req.NewPhase, req.TargetQuantity, req.LossQuantity); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		touched = append(touched, batch)

		propagated, err := s.propagatePlantStage(ctx, repos, tenantID, batch, req.NewPhase)
		if err != nil {
			return err
		}

		result = LifecycleResult{
			Batch:            ToBatchResponse(batch),
			PlantsPropagated: propagated,
		}

		if source != nil {
			unit := req.TargetQuantityUnit
			if unit == "" {
				unit = "unit"
			}
			outcome, err := s.movements.ApplyTransformation(ctx, repos, tenantID, ledger.TransformationParams{
				SourceItemID:       source.ID,
				TargetProductID:    req.TargetProductID,
				TargetQuantity:     req.TargetQuantity,
				TargetQuantityUnit: unit,
				TransformationType: inventory.TransformationPhaseTransition,
				BatchID:            &batch.ID,
				FacilityID:         batch.FacilityID,
				AreaID:             &batch.AreaID,
				PerformedBy:        req.PerformedBy,
				Notes:              req.Notes,
			})
			if err != nil {
				return err
			}
			result.ActivityID = outcome.ActivityID
			result.SourceItemID = &outcome.SourceItemID
			result.NewItemID = &outcome.NewItemID
			result.NewBatchNumber = outcome.BatchNumber
			touched = append(touched, outcome.Touched...)
			return nil
		}

		activity, err := s.recordPlainActivity(ctx, repos, tenantID, batch, inventory.ActivityPhaseTransition, req.PerformedBy, req.Notes, req.LossReason)
		if err != nil {
			return err
		}
		result.ActivityID = activity.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, touched)
	return &result, nil
}

// Harvest closes an active batch and transforms its linked lot into
// plant material sized at the yield, not the plant count. Cost per
// unit of the new lot follows the harvested plants proportionally.
func (s *BatchService) Harvest(ctx context.Context, tenantID, batchID uuid.UUID, req HarvestRequest) (*LifecycleResult, error) {
	if req.YieldQuantity.LessThanOrEqual(decimal.Zero) || req.YieldUnit == "" {
		return nil, shared.NewInvalidOperationError("Harvest requires a yield quantity and unit")
	}

	var result LifecycleResult
	var touched []shared.AggregateRoot

	err := s.scope.Execute(ctx, func(repos ledger.TransactionalRepositories) error {
		batch, err := repos.BatchRepo().FindByIDForTenant(ctx, tenantID, batchID)
		if err != nil {
			return err
		}

		source, err := s.locateLinkedItem(ctx, repos, tenantID, batch, req.SourceInventoryItemID)
		if err != nil {
			return err
		}

		harvestDate := timeOrZero(req.HarvestDate)
		if err := batch.Harvest(harvestDate); err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}
		touched = append(touched, batch)

		propagated := 0
		if batch.EnableIndividualTracking {
			plants, err := repos.PlantRepo().FindAliveByBatch(ctx, tenantID, batch.ID)
			if err != nil {
				return err
			}
			toSave := make([]*cultivation.Plant, 0, len(plants))
			for i := range plants {
				if err := plants[i].MarkHarvested(); err != nil {
					return err
				}
				toSave = append(toSave, &plants[i])
			}
			if len(toSave) > 0 {
				if err := repos.PlantRepo().SaveAll(ctx, toSave); err != nil {
					return err
				}
			}
			propagated = len(toSave)
		}

		result = LifecycleResult{
			Batch:            ToBatchResponse(batch),
			PlantsPropagated: propagated,
		}

		if source != nil {
			var costOverride *decimal.Decimal
			if source.CostPerUnit.GreaterThan(decimal.Zero) && req.PlantsHarvested.GreaterThan(decimal.Zero) {
				cost := source.CostPerUnit.Mul(req.PlantsHarvested).Div(req.YieldQuantity).Round(4)
				costOverride = &cost
			}
			outcome, err := s.movements.ApplyTransformation(ctx, repos, tenantID, ledger.TransformationParams{
				SourceItemID:       source.ID,
				TargetProductID:    req.TargetProductID,
				TargetQuantity:     req.YieldQuantity,
				TargetQuantityUnit: req.YieldUnit,
				TransformationType: inventory.TransformationHarvest,
				CostPerUnit:        costOverride,
				BatchID:            &batch.ID,
				FacilityID:         batch.FacilityID,
				AreaID:             &batch.AreaID,
				PerformedBy:        req.PerformedBy,
				Notes:              req.Notes,
			})
			if err != nil {
				return err
			}
			result.ActivityID = outcome.ActivityID
			result.SourceItemID = &outcome.SourceItemID
			result.NewItemID = &outcome.NewItemID
			result.NewBatchNumber = outcome.BatchNumber
			touched = append(touched, outcome.Touched...)
			return nil
		}

		activity, err := s.recordPlainActivity(ctx, repos, tenantID, batch, inventory.ActivityHarvest, req.PerformedBy, req.Notes, "")
		if err != nil {
			return err
		}
		result.ActivityID = activity.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publishDomainEvents(ctx, touched)
	return &result, nil
}

// locateLinkedItem resolves the batch's current lot: the explicit id
// when the caller supplied one, otherwise the first consumable lot
// whose source batch matches. A batch without a linked lot is fine.
func (s *BatchService) locateLinkedItem(ctx context.Context, repos ledger.TransactionalRepositories, tenantID uuid.UUID, batch *cultivation.Batch, explicitID *uuid.UUID) (*inventory.InventoryItem, error) {
	if explicitID != nil {
		return repos.ItemRepo().FindByIDForTenant(ctx, tenantID, *explicitID)
	}

	lots, err := repos.ItemRepo().FindBySourceBatch(ctx, tenantID, batch.ID)
	if err != nil {
		return nil, err
	}
	for i := range lots {
		if lots[i].IsConsumable() {
			return &lots[i], nil
		}
	}
	return nil, nil
}

func (s *BatchService) propagatePlantStage(ctx context.Context, repos ledger.TransactionalRepositories, tenantID uuid.UUID, batch *cultivation.Batch, stage cultivation.GrowthPhase) (int, error) {
	if !batch.EnableIndividualTracking {
		return 0, nil
	}
	plants, err := repos.PlantRepo().FindAliveByBatch(ctx, tenantID, batch.ID)
	if err != nil {
		return 0, err
	}
	toSave := make([]*cultivation.Plant, 0, len(plants))
	for i := range plants {
		if err := plants[i].AdvanceStage(stage); err != nil {
			return 0, err
		}
		toSave = append(toSave, &plants[i])
	}
	if len(toSave) > 0 {
		if err := repos.PlantRepo().SaveAll(ctx, toSave); err != nil {
			return 0, err
		}
	}
	return len(toSave), nil
}

func (s *BatchService) recordPlainActivity(ctx context.Context, repos ledger.TransactionalRepositories, tenantID uuid.UUID, batch *cultivation.Batch, activityType inventory.ActivityType, performedBy *uuid.UUID, notes, reason string) (*inventory.Activity, error) {
	activity, err := inventory.NewActivity(tenantID, inventory.NewActivityParams{
		ActivityType: activityType,
		EntityType:   "batch",
		EntityID:     &batch.ID,
		FacilityID:   batch.FacilityID,
		AreaID:       &batch.AreaID,
		BatchID:      &batch.ID,
		PerformedBy:  performedBy,
		Notes:        notes,
		Reason:       reason,
	})
	if err != nil {
		return nil, err
	}
	activity.SetQuantities(batch.CurrentQuantity, batch.CurrentQuantity)
	if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
		return nil, err
	}
	return activity, nil
}

func (s *BatchService) publishDomainEvents(ctx context.Context, aggregates []shared.AggregateRoot) {
	if s.eventPublisher == nil {
		return
	}
	for _, agg := range aggregates {
		events := agg.GetDomainEvents()
		if len(events) == 0 {
			continue
		}
		_ = s.eventPublisher.Publish(ctx, events...)
		agg.ClearDomainEvents()
	}
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
