package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// StocktakeRequest carries the counted quantities of one physical
// count. Every count is an absolute observed value, not a delta.
type StocktakeRequest struct {
	AreaID      uuid.UUID       `json:"areaId"`
	FacilityID  uuid.UUID       `json:"facilityId" binding:"required"`
	Counts      []StocktakeLine `json:"counts" binding:"required"`
	Reason      string          `json:"reason" binding:"required"`
	PerformedBy *uuid.UUID      `json:"performedBy,omitempty"`
	Notes       string          `json:"notes,omitempty"`
}

// StocktakeLine is one counted lot
type StocktakeLine struct {
	InventoryItemID uuid.UUID       `json:"inventoryItemId" binding:"required"`
	CountedQuantity decimal.Decimal `json:"countedQuantity"`
}

// StocktakeResult reports what the reconciliation changed
type StocktakeResult struct {
	ActivityIDs []uuid.UUID     `json:"activityIds"`
	Adjusted    int             `json:"adjusted"`
	Unchanged   int             `json:"unchanged"`
	TotalShift  decimal.Decimal `json:"totalShift"`
}

// StocktakeService reconciles counted quantities against the ledger.
// Each divergent lot gets one correction activity; all corrections of
// one stocktake commit together or not at all.
type StocktakeService struct {
	scope          TransactionScope
	eventPublisher shared.EventPublisher
}

// NewStocktakeService creates a new StocktakeService
func NewStocktakeService(scope TransactionScope) *StocktakeService {
	return &StocktakeService{scope: scope}
}

// SetEventPublisher sets the publisher for domain events
func (s *StocktakeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Reconcile applies a physical count. Lots whose counted quantity
// matches the recorded one are left untouched.
func (s *StocktakeService) Reconcile(ctx context.Context, tenantID uuid.UUID, req StocktakeRequest) (*StocktakeResult, error) {
	if len(req.Counts) == 0 {
		return nil, shared.NewInvalidOperationError("Stocktake requires at least one counted lot")
	}
	if req.Reason == "" {
		return nil, shared.NewInvalidOperationError("Stocktake requires a reason")
	}

	result := &StocktakeResult{TotalShift: decimal.Zero}
	var touched []shared.AggregateRoot

	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, line := range req.Counts {
			item, err := repos.ItemRepo().FindByIDForTenant(ctx, tenantID, line.InventoryItemID)
			if err != nil {
				return err
			}
			if item.QuantityAvailable.Equal(line.CountedQuantity) {
				result.Unchanged++
				continue
			}

			before := item.QuantityAvailable
			change, err := item.SetQuantity(line.CountedQuantity, req.Reason)
			if err != nil {
				return err
			}
			if err := repos.ItemRepo().SaveWithLock(ctx, item); err != nil {
				return err
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
				return err
			}
			activity.SetQuantities(before, item.QuantityAvailable)
			activity.PutMetadata("quantity_change", change.String())
			activity.PutMetadata("source", "stocktake")
			if err := repos.ActivityRepo().Create(ctx, activity); err != nil {
				return err
			}

			result.ActivityIDs = append(result.ActivityIDs, activity.ID)
			result.Adjusted++
			result.TotalShift = result.TotalShift.Add(change)
			touched = append(touched, item)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, agg := range touched {
			events := agg.GetDomainEvents()
			if len(events) == 0 {
				continue
			}
			_ = s.eventPublisher.Publish(ctx, events...)
			agg.ClearDomainEvents()
		}
	}
	return result, nil
}
