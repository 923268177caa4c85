package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/catalog"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementMetrics counts recorded and failed movements. Implemented by
// the Prometheus metrics package; nil checks guard every call so the
// service runs without one.
type MovementMetrics interface {
	MovementRecorded(movementType string)
	MovementFailed(movementType string)
}

// MovementService is the single entry point for all inventory
// movements. Every movement runs inside one database transaction with
// optimistic version checks on each touched lot; a validation failure
// rejects the whole movement with no partial writes.
type MovementService struct {
	scope          TransactionScope
	lotNumbers     *inventory.LotNumberGenerator
	eventPublisher shared.EventPublisher
	metrics        MovementMetrics
}

// NewMovementService creates a new MovementService
func NewMovementService(scope TransactionScope, lotNumbers *inventory.LotNumberGenerator) *MovementService {
	return &MovementService{
		scope:      scope,
		lotNumbers: lotNumbers,
	}
}

// SetEventPublisher sets the publisher for domain events
func (s *MovementService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the movement counters
func (s *MovementService) SetMetrics(m MovementMetrics) {
	s.metrics = m
}

// RecordMovement validates and applies one movement, emitting exactly
// one Activity record (receipts close a bidirectional activity-item
// reference loop inside the same transaction).
func (s *MovementService) RecordMovement(ctx context.Context, tenantID uuid.UUID, req MovementRequest) (*MovementResult, error) {
	if !req.MovementType.IsValid() {
		s.countFailure(string(req.MovementType))
		return nil, inventory.NewUnsupportedMovementTypeError(string(req.MovementType))
	}

	var result *MovementResult
	var touched []shared.AggregateRoot

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		switch req.MovementType {
		case inventory.MovementReceipt:
			result, touched, err = s.applyReceipt(ctx, repos, tenantID, req)
		case inventory.MovementConsumption, inventory.MovementWaste, inventory.MovementReturn:
			result, touched, err = s.applyDecrease(ctx, repos, tenantID, req)
		case inventory.MovementCorrection:
			result, touched, err = s.applyCorrection(ctx, repos, tenantID, req)
		case inventory.MovementTransfer:
			result, touched, err = s.applyTransfer(ctx, repos, tenantID, req)
		case inventory.MovementTransformation:
			result, touched, err = s.applyTransformationMovement(ctx, repos, tenantID, req)
		default:
			err = inventory.NewUnsupportedMovementTypeError(string(req.MovementType))
		}
		return err
	})

	if err != nil {
		s.countFailure(string(req.MovementType))
		return nil, err
	}

	s.countSuccess(string(req.MovementType))
	s.publishDomainEvents(ctx, touched)
	return result, nil
}

func (s *MovementService) countSuccess(movementType string) {
	if s.metrics != nil {
		s.metrics.MovementRecorded(movementType)
	}
}

func (s *MovementService) countFailure(movementType string) {
	if s.metrics != nil {
		s.metrics.MovementFailed(movementType)
	}
}

func (s *MovementService) publishDomainEvents(ctx context.Context, aggregates []shared.AggregateRoot) {
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

// applyReceipt creates a new lot. The activity id is allocated before
// the lot so both sides of the activity-item reference are written in
// one pass: the lot's created_by_activity_id points at the activity,
// and the activity's entity_id points back at the lot.
func (s *MovementService) applyReceipt(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req MovementRequest) (*MovementResult, []shared.AggregateRoot, error) {
	product, err := s.lookupProduct(ctx, repos, tenantID, req.ProductID)
	if err != nil {
		return nil, nil, err
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, nil, shared.NewInvalidOperationError("Receipt quantity must be positive")
	}

	batchNumber := req.BatchNumber
	if batchNumber == "" {
		batchNumber = s.lotNumbers.Next(product.Category)
	}

	activity, err := inventory.NewActivity(tenantID, inventory.NewActivityParams{
		ActivityType: inventory.ActivityReceipt,
		EntityType:   "inventory_item",
		FacilityID:   req.FacilityID,
		AreaID:       &req.AreaID,
		PerformedBy:  req.PerformedBy,
		Notes:        req.Notes,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, nil, err
	}

	purchasePrice := decimal.Zero
	if req.PurchasePrice != nil {
		purchasePrice = *req.PurchasePrice
	}
	costPerUnit := decimal.Zero
	if req.CostPerUnit != nil {
		costPerUnit = *req.CostPerUnit
	}
	receivedDate := time.Time{}
	if req.ReceivedDate != nil {
		receivedDate = *req.ReceivedDate
	}

	item, err := inventory.NewInventoryItem(tenantID, inventory.NewItemParams{
		ProductID:         req.ProductID,
		FacilityID:        req.FacilityID,
		AreaID:            req.AreaID,
		Quantity:          req.Quantity,
		QuantityUnit:      req.QuantityUnit,
		BatchNumber:       batchNumber,
		SupplierLotNumber: req.SupplierLotNumber,
		SupplierID:        req.SupplierID,
		ReceivedDate:      receivedDate,
		ManufacturingDate: req.ManufacturingDate,
		ExpirationDate:    req.ExpirationDate,
		PurchasePrice:     purchasePrice,
		CostPerUnit:       costPerUnit,
		SourceType:        inventory.SourceTypePurchase,
	})
	if err != nil {
		return nil, nil, err
	}
	item.SetCreatedBy(activity.ID)
	item.AddDomainEvent(inventory.NewLotReceivedEvent(item))

	activity.SetEntity("inventory_item", item.ID)
	activity.SetQuantities(decimal.Zero, item.QuantityAvailable)
	activity.RecordProduced(inventory.MaterialProduced{
		InventoryItemID: item.ID,
		ProductID:       item.ProductID,
		BatchNumber:     item.BatchNumber,
		Quantity:        item.QuantityAvailable,
		QuantityUnit:    item.QuantityUnit,
		CostPerUnit:     item.CostPerUnit,
	})

	if err := repos.ItemRepo().Save(ctx, item); err != nil {
		return nil, nil, err
	}
	if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
		return nil, nil, err
	}

	itemID := item.ID
	return &MovementResult{
		ActivityID:      activity.ID,
		MovementType:    inventory.MovementReceipt,
		InventoryItemID: &itemID,
		QuantityChange:  item.QuantityAvailable,
		BatchNumber:     item.BatchNumber,
		LotsTouched:     1,
	}, []shared.AggregateRoot{item}, nil
}

// applyDecrease handles consumption, waste and return. Specific mode
// targets one lot; FIFO mode (the default without an item id) spans
// consumable lots oldest first. A shortfall fails the whole movement
// before any lot is written.
func (s *MovementService) applyDecrease(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req MovementRequest) (*MovementResult, []shared.AggregateRoot, error) {
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, nil, shared.NewInvalidOperationError("Quantity must be positive")
	}

	mode := req.LotSelectionMode
	if mode == "" {
		if req.InventoryItemID != nil {
			mode = inventory.SelectionSpecific
		} else {
			mode = inventory.SelectionFIFO
		}
	}
	if !mode.IsValid() {
		return nil, nil, shared.NewInvalidOperationError("Unknown lot selection mode")
	}

	var lots []*inventory.InventoryItem
	var plan *inventory.ConsumptionPlan

	switch mode {
	case inventory.SelectionSpecific:
		if req.InventoryItemID == nil {
			return nil, nil, shared.NewInvalidOperationError("Specific selection requires an inventory item id")
		}
		item, err := repos.ItemRepo().FindByIDForTenant(ctx, tenantID, *req.InventoryItemID)
		if err != nil {
			return nil, nil, err
		}
		lots = []*inventory.InventoryItem{item}
		plan, err = inventory.PlanSpecificConsumption(req.Quantity, item)
		if err != nil {
			return nil, nil, err
		}
	case inventory.SelectionFIFO:
		if _, err := s.lookupProduct(ctx, repos, tenantID, req.ProductID); err != nil {
			return nil, nil, err
		}
		found, err := repos.ItemRepo().FindAvailableForConsumption(ctx, tenantID, req.FacilityID, req.ProductID)
		if err != nil {
			return nil, nil, err
		}
		lots = found
		plan, err = inventory.PlanFIFOConsumption(req.Quantity, lots)
		if err != nil {
			return nil, nil, err
		}
	}

	activity, err := inventory.NewActivity(tenantID, inventory.NewActivityParams{
		ActivityType: inventory.ActivityTypeForMovement(req.MovementType),
		EntityType:   "inventory_item",
		FacilityID:   req.FacilityID,
		AreaID:       &req.AreaID,
		PerformedBy:  req.PerformedBy,
		Notes:        req.Notes,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, nil, err
	}

	byID := make(map[uuid.UUID]*inventory.InventoryItem, len(lots))
	for _, lot := range lots {
		byID[lot.ID] = lot
	}

	touched := make([]shared.AggregateRoot, 0, len(plan.Deductions))
	totalBefore := decimal.Zero
	totalAfter := decimal.Zero
	for _, deduction := range plan.Deductions {
		lot := byID[deduction.ItemID]
		if err := lot.Deduct(deduction.Quantity, req.MovementType); err != nil {
			return nil, nil, err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, lot); err != nil {
			return nil, nil, err
		}
		activity.RecordConsumed(inventory.MaterialConsumed{
			InventoryItemID:  lot.ID,
			ProductID:        lot.ProductID,
			BatchNumber:      lot.BatchNumber,
			Quantity:         deduction.Quantity,
			QuantityUnit:     lot.QuantityUnit,
			QuantityBefore:   deduction.QuantityBefore,
			QuantityAfter:    deduction.QuantityAfter,
			CostPerUnit:      lot.CostPerUnit,
			LotSelectionMode: string(mode),
		})
		totalBefore = totalBefore.Add(deduction.QuantityBefore)
		totalAfter = totalAfter.Add(deduction.QuantityAfter)
		touched = append(touched, lot)
	}

	if len(plan.Deductions) == 1 {
		activity.SetEntity("inventory_item", plan.Deductions[0].ItemID)
	}
	activity.SetQuantities(totalBefore, totalAfter)
	activity.PutMetadata("lot_selection_mode", string(mode))

	if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
		return nil, nil, err
	}

	result := &MovementResult{
		ActivityID:     activity.ID,
		MovementType:   req.MovementType,
		QuantityChange: plan.TotalDeducted.Neg(),
		LotsTouched:    len(plan.Deductions),
	}
	if len(plan.Deductions) == 1 {
		id := plan.Deductions[0].ItemID
		result.InventoryItemID = &id
	}
	return result, touched, nil
}

// applyCorrection sets an absolute quantity from a physical count. The
// recorded change is new minus old; increases are legitimate.
func (s *MovementService) applyCorrection(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req MovementRequest) (*MovementResult, []shared.AggregateRoot, error) {
	if req.InventoryItemID == nil {
		return nil, nil, shared.NewInvalidOperationError("Correction requires an inventory item id")
	}
	if req.NewQuantity == nil {
		return nil, nil, shared.NewInvalidOperationError("Correction requires the new absolute quantity")
	}

	item, err := repos.ItemRepo().FindByIDForTenant(ctx, tenantID, *req.InventoryItemID)
	if err != nil {
		return nil, nil, err
	}

	before := item.QuantityAvailable
	change, err := item.SetQuantity(*req.NewQuantity, req.Reason)
	if err != nil {
		return nil, nil, err
	}
	if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
		return nil, nil, err
	}

	activity, err := inventory.NewActivity(tenantID, inventory.NewActivityParams{
		ActivityType: inventory.ActivityCorrection,
		EntityType:   "inventory_item",
		EntityID:     &item.ID,
		FacilityID:   req.FacilityID,
		AreaID:       &item.AreaID,
		PerformedBy:  req.PerformedBy,
		Notes:        req.Notes,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, nil, err
	}
	activity.SetQuantities(before, item.QuantityAvailable)
	activity.PutMetadata("quantity_change", change.String())

	if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
		return nil, nil, err
	}

	itemID := item.ID
	return &MovementResult{
		ActivityID:      activity.ID,
		MovementType:    inventory.MovementCorrection,
		InventoryItemID: &itemID,
		QuantityChange:  change,
		BatchNumber:     item.BatchNumber,
		LotsTouched:     1,
	}, []shared.AggregateRoot{item}, nil
}

// applyTransfer moves quantity between areas. The destination merges
// into an existing lot of the same product, area and batch number when
// one is available; otherwise a new lot inherits the source's batch
// number, provenance dates and cost fields.
func (s *MovementService) applyTransfer(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req MovementRequest) (*MovementResult, []shared.AggregateRoot, error) {
	if req.InventoryItemID == nil {
		return nil, nil, shared.NewInvalidOperationError("Transfer requires a source inventory item id")
	}
	if req.DestinationAreaID == nil {
		return nil, nil, shared.NewInvalidOperationError("Transfer requires a destination area id")
	}
	if req.Quantity.LessThanOrEqual(decimal.Zero) {
		return nil, nil, shared.NewInvalidOperationError("Transfer quantity must be positive")
	}

	source, err := repos.ItemRepo().FindByIDForTenant(ctx, tenantID, *req.InventoryItemID)
	if err != nil {
		return nil, nil, err
	}
	if source.AreaID == *req.DestinationAreaID {
		return nil, nil, shared.NewInvalidOperationError("Destination area must differ from the source area")
	}
	fromAreaID := source.AreaID

	if err := source.Deduct(req.Quantity, inventory.MovementTransfer); err != nil {
		return nil, nil, err
	}
	if err := repos.ItemRepo().SaveWithLock(ctx, source); err != nil {
		return nil, nil, err
	}

	touched := []shared.AggregateRoot{source}

	target, err := repos.ItemRepo().FindMergeTarget(ctx, tenantID, *req.DestinationAreaID, source.ProductID, source.BatchNumber)
	if err != nil && !shared.IsNotFound(err) {
		return nil, nil, err
	}

	var targetID uuid.UUID
	if target != nil {
		if err := target.MergeIn(req.Quantity); err != nil {
			return nil, nil, err
		}
		if err := repos.ItemRepo().SaveWithLock(ctx, target); err != nil {
			return nil, nil, err
		}
		targetID = target.ID
		touched = append(touched, target)
	} else {
		created, err := inventory.NewInventoryItem(tenantID, inventory.NewItemParams{
			ProductID:         source.ProductID,
			FacilityID:        source.FacilityID,
			AreaID:            *req.DestinationAreaID,
			Quantity:          req.Quantity,
			QuantityUnit:      source.QuantityUnit,
			BatchNumber:       source.BatchNumber,
			SupplierLotNumber: source.SupplierLotNumber,
			SupplierID:        source.SupplierID,
			ReceivedDate:      source.ReceivedDate,
			ManufacturingDate: source.ManufacturingDate,
			ExpirationDate:    source.ExpirationDate,
			PurchasePrice:     source.PurchasePrice,
			CostPerUnit:       source.CostPerUnit,
			SourceType:        inventory.SourceTypeTransfer,
			SourceBatchID:     source.SourceBatchID,
		})
		if err != nil {
			return nil, nil, err
		}
		if err := repos.ItemRepo().Save(ctx, created); err != nil {
			return nil, nil, err
		}
		targetID = created.ID
		touched = append(touched, created)
	}

	source.AddDomainEvent(inventory.NewLotTransferredEvent(source, targetID, *req.DestinationAreaID, req.Quantity))

	activity, err := inventory.NewActivity(tenantID, inventory.NewActivityParams{
		ActivityType: inventory.ActivityTransfer,
		EntityType:   "inventory_item",
		EntityID:     &source.ID,
		FacilityID:   req.FacilityID,
		AreaID:       &fromAreaID,
		PerformedBy:  req.PerformedBy,
		Notes:        req.Notes,
		Reason:       req.Reason,
	})
	if err != nil {
		return nil, nil, err
	}
	activity.RecordConsumed(inventory.MaterialConsumed{
		InventoryItemID: source.ID,
		ProductID:       source.ProductID,
		BatchNumber:     source.BatchNumber,
		Quantity:        req.Quantity,
		QuantityUnit:    source.QuantityUnit,
		QuantityBefore:  source.QuantityAvailable.Add(req.Quantity),
		QuantityAfter:   source.QuantityAvailable,
		CostPerUnit:     source.CostPerUnit,
	})
	activity.RecordProduced(inventory.MaterialProduced{
		InventoryItemID: targetID,
		ProductID:       source.ProductID,
		BatchNumber:     source.BatchNumber,
		Quantity:        req.Quantity,
		QuantityUnit:    source.QuantityUnit,
		CostPerUnit:     source.CostPerUnit,
	})
	activity.PutMetadata("area_from", fromAreaID.String())
	activity.PutMetadata("area_to", req.DestinationAreaID.String())

	if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
		return nil, nil, err
	}

	sourceID := source.ID
	return &MovementResult{
		ActivityID:      activity.ID,
		MovementType:    inventory.MovementTransfer,
		InventoryItemID: &sourceID,
		TargetItemID:    &targetID,
		QuantityChange:  decimal.Zero,
		BatchNumber:     source.BatchNumber,
		LotsTouched:     2,
	}, touched, nil
}

// TransformationParams are the inputs of the transformation primitive
type TransformationParams struct {
	SourceItemID       uuid.UUID
	TargetProductID    uuid.UUID
	TargetQuantity     decimal.Decimal
	TargetQuantityUnit string
	TransformationType inventory.TransformationType
	CostPerUnit        *decimal.Decimal // Overrides the proportional default
	BatchID            *uuid.UUID
	FacilityID         uuid.UUID
	AreaID             *uuid.UUID
	PerformedBy        *uuid.UUID
	Notes              string
}

// TransformationOutcome reports what the primitive did
type TransformationOutcome struct {
	ActivityID   uuid.UUID
	SourceItemID uuid.UUID
	NewItemID    uuid.UUID
	BatchNumber  string
	Touched      []shared.AggregateRoot
}

// ApplyTransformation consumes 100% of a source lot and produces a new
// lot of a different product. The source is zeroed and frozen with a
// terminal transformation status pointing forward at the new lot and
// the activity; the new lot carries no supplier identity (manufactured
// lots have no external provenance). Exposed for the cultivation
// service, which wraps it with batch and plant state changes in the
// same transaction.
func (s *MovementService) ApplyTransformation(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, params TransformationParams) (*TransformationOutcome, error) {
	if !params.TransformationType.IsValid() {
		return nil, shared.NewInvalidOperationError("Unknown transformation type")
	}
	if params.TargetQuantity.LessThanOrEqual(decimal.Zero) || params.TargetQuantityUnit == "" {
		return nil, shared.NewInvalidOperationError("Transformation requires a target quantity and unit")
	}

	source, err := repos.ItemRepo().FindByIDForTenant(ctx, tenantID, params.SourceItemID)
	if err != nil {
		return nil, err
	}
	if source.TransformationStatus.IsTerminal() {
		return nil, shared.NewInvalidOperationError("Source lot has already been " + string(source.TransformationStatus))
	}

	targetProduct, err := s.lookupProduct(ctx, repos, tenantID, params.TargetProductID)
	if err != nil {
		return nil, err
	}

	activityType := inventory.ActivityTransformation
	switch params.TransformationType {
	case inventory.TransformationHarvest:
		activityType = inventory.ActivityHarvest
	case inventory.TransformationPhaseTransition:
		activityType = inventory.ActivityPhaseTransition
	}

	areaID := params.AreaID
	if areaID == nil {
		areaID = &source.AreaID
	}
	activity, err := inventory.NewActivity(tenantID, inventory.NewActivityParams{
		ActivityType: activityType,
		EntityType:   "inventory_item",
		FacilityID:   params.FacilityID,
		AreaID:       areaID,
		BatchID:      params.BatchID,
		PerformedBy:  params.PerformedBy,
		Notes:        params.Notes,
	})
	if err != nil {
		return nil, err
	}

	sourceQuantity := source.QuantityAvailable

	// Cost follows the source's value unless the caller computed one
	// (harvest does, proportionally to plants harvested).
	costPerUnit := decimal.Zero
	if params.CostPerUnit != nil {
		costPerUnit = *params.CostPerUnit
	} else if source.CostPerUnit.GreaterThan(decimal.Zero) {
		costPerUnit = source.CostPerUnit.Mul(sourceQuantity).Div(params.TargetQuantity).Round(4)
	}

	newItem, err := inventory.NewInventoryItem(tenantID, inventory.NewItemParams{
		ProductID:     params.TargetProductID,
		FacilityID:    source.FacilityID,
		AreaID:        *areaID,
		Quantity:      params.TargetQuantity,
		QuantityUnit:  params.TargetQuantityUnit,
		BatchNumber:   s.lotNumbers.Next(targetProduct.Category),
		CostPerUnit:   costPerUnit,
		SourceType:    inventory.SourceTypeProduction,
		SourceBatchID: params.BatchID,
	})
	if err != nil {
		return nil, err
	}
	newItem.SetCreatedBy(activity.ID)

	activity.SetEntity("inventory_item", newItem.ID)
	activity.SetQuantities(sourceQuantity, decimal.Zero)
	activity.RecordConsumed(inventory.MaterialConsumed{
		InventoryItemID: source.ID,
		ProductID:       source.ProductID,
		BatchNumber:     source.BatchNumber,
		Quantity:        sourceQuantity,
		QuantityUnit:    source.QuantityUnit,
		QuantityBefore:  sourceQuantity,
		QuantityAfter:   decimal.Zero,
		CostPerUnit:     source.CostPerUnit,
	})
	activity.RecordProduced(inventory.MaterialProduced{
		InventoryItemID: newItem.ID,
		ProductID:       newItem.ProductID,
		BatchNumber:     newItem.BatchNumber,
		Quantity:        newItem.QuantityAvailable,
		QuantityUnit:    newItem.QuantityUnit,
		CostPerUnit:     newItem.CostPerUnit,
	})
	activity.PutMetadata("transformation_type", string(params.TransformationType))

	if err := source.MarkTransformed(params.TransformationType.TerminalStatus(), newItem.ID, activity.ID); err != nil {
		return nil, err
	}

	if err := repos.ItemRepo().SaveWithLock(ctx, source); err != nil {
		return nil, err
	}
	if err := repos.ItemRepo().Save(ctx, newItem); err != nil {
		return nil, err
	}
	if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
		return nil, err
	}

	return &TransformationOutcome{
		ActivityID:   activity.ID,
		SourceItemID: source.ID,
		NewItemID:    newItem.ID,
		BatchNumber:  newItem.BatchNumber,
		Touched:      []shared.AggregateRoot{source, newItem},
	}, nil
}

// applyTransformationMovement adapts the transformation primitive to
// the RecordMovement contract
func (s *MovementService) applyTransformationMovement(ctx context.Context, repos TransactionalRepositories, tenantID uuid.UUID, req MovementRequest) (*MovementResult, []shared.AggregateRoot, error) {
	if req.InventoryItemID == nil {
		return nil, nil, shared.NewInvalidOperationError("Transformation requires a source inventory item id")
	}
	if req.TargetProductID == nil || req.TargetQuantity == nil || req.TargetQuantityUnit == "" {
		return nil, nil, shared.NewInvalidOperationError("Transformation requires a target product, quantity and unit")
	}

	transformationType := req.TransformationType
	if transformationType == "" {
		transformationType = inventory.TransformationPhaseTransition
	}

	outcome, err := s.ApplyTransformation(ctx, repos, tenantID, TransformationParams{
		SourceItemID:       *req.InventoryItemID,
		TargetProductID:    *req.TargetProductID,
		TargetQuantity:     *req.TargetQuantity,
		TargetQuantityUnit: req.TargetQuantityUnit,
		TransformationType: transformationType,
		BatchID:            req.SourceBatchID,
		FacilityID:         req.FacilityID,
		PerformedBy:        req.PerformedBy,
		Notes:              req.Notes,
	})
	if err != nil {
		return nil, nil, err
	}

	sourceID := outcome.SourceItemID
	newID := outcome.NewItemID
	return &MovementResult{
		ActivityID:      outcome.ActivityID,
		MovementType:    inventory.MovementTransformation,
		InventoryItemID: &sourceID,
		TargetItemID:    &newID,
		QuantityChange:  *req.TargetQuantity,
		BatchNumber:     outcome.BatchNumber,
		LotsTouched:     2,
	}, outcome.Touched, nil
}

func (s *MovementService) lookupProduct(ctx context.Context, repos TransactionalRepositories, tenantID, productID uuid.UUID) (*catalog.Product, error) {
	if productID == uuid.Nil {
		return nil, shared.NewNotFoundError("product")
	}
	product, err := repos.ProductRepo().FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewNotFoundError("product")
		}
		return nil, err
	}
	return product, nil
}
