package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
)

// ActivityService serves read-only projections over the activity
// journal. Nothing here affects ledger invariants.
type ActivityService struct {
	activityRepo inventory.ActivityRepository
	itemRepo     inventory.InventoryItemRepository
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo inventory.ActivityRepository, itemRepo inventory.InventoryItemRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		itemRepo:     itemRepo,
	}
}

// GetByID retrieves one activity
func (s *ActivityService) GetByID(ctx context.Context, tenantID, activityID uuid.UUID) (*ActivityResponse, error) {
	activity, err := s.activityRepo.FindByIDForTenant(ctx, tenantID, activityID)
	if err != nil {
		return nil, err
	}
	response := ToActivityResponse(activity)
	return &response, nil
}

// List retrieves activities matching the filter
func (s *ActivityService) List(ctx context.Context, tenantID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	var activities []inventory.Activity
	var err error
	switch {
	case filter.BatchID != nil:
		activities, err = s.activityRepo.FindByBatch(ctx, tenantID, *filter.BatchID, domainFilter)
	case filter.ActivityType != nil:
		activities, err = s.activityRepo.FindByType(ctx, tenantID, *filter.ActivityType, domainFilter)
	case filter.StartDate != nil && filter.EndDate != nil:
		activities, err = s.activityRepo.FindByDateRange(ctx, tenantID, *filter.StartDate, *filter.EndDate, domainFilter)
	default:
		activities, err = s.activityRepo.FindForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.activityRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		responses = append(responses, ToActivityResponse(&activities[i]))
	}
	return responses, total, nil
}

// MovementHistoryByItem retrieves the movement history of one lot,
// newest first
func (s *ActivityService) MovementHistoryByItem(ctx context.Context, tenantID, itemID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, error) {
	if _, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.FindByInventoryItem(ctx, tenantID, itemID, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		responses = append(responses, ToActivityResponse(&activities[i]))
	}
	return responses, nil
}

// MovementHistoryByProduct retrieves the movement history of every lot
// of a product
func (s *ActivityService) MovementHistoryByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter ActivityListFilter) ([]ActivityResponse, error) {
	lots, err := s.itemRepo.FindByProduct(ctx, tenantID, productID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	seen := make(map[uuid.UUID]bool)
	responses := make([]ActivityResponse, 0)
	for i := range lots {
		activities, err := s.activityRepo.FindByInventoryItem(ctx, tenantID, lots[i].ID, s.toDomainFilter(filter))
		if err != nil {
			return nil, err
		}
		for j := range activities {
			if seen[activities[j].ID] {
				continue
			}
			seen[activities[j].ID] = true
			responses = append(responses, ToActivityResponse(&activities[j]))
		}
	}
	return responses, nil
}

func (s *ActivityService) toDomainFilter(filter ActivityListFilter) shared.Filter {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "performed_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}
