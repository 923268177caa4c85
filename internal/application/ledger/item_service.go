package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/growops/backend/internal/domain/inventory"
	"github.com/growops/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ItemService serves read-only projections over inventory lots. All
// quantity changes go through the movement service.
type ItemService struct {
	itemRepo inventory.InventoryItemRepository
}

// NewItemService creates a new ItemService
func NewItemService(itemRepo inventory.InventoryItemRepository) *ItemService {
	return &ItemService{itemRepo: itemRepo}
}

// GetByID retrieves one lot
func (s *ItemService) GetByID(ctx context.Context, tenantID, itemID uuid.UUID) (*InventoryItemResponse, error) {
	item, err := s.itemRepo.FindByIDForTenant(ctx, tenantID, itemID)
	if err != nil {
		return nil, err
	}
	response := ToInventoryItemResponse(item)
	return &response, nil
}

// List retrieves lots matching the filter with pagination
func (s *ItemService) List(ctx context.Context, tenantID uuid.UUID, filter ItemListFilter) ([]InventoryItemResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	var items []inventory.InventoryItem
	var err error
	switch {
	case filter.ProductID != nil:
		items, err = s.itemRepo.FindByProduct(ctx, tenantID, *filter.ProductID, domainFilter)
	case filter.AreaID != nil:
		items, err = s.itemRepo.FindByArea(ctx, tenantID, *filter.AreaID, domainFilter)
	default:
		items, err = s.itemRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.itemRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToInventoryItemResponse(&items[i]))
	}
	return responses, total, nil
}

// ListExpiring retrieves lots expiring within the given number of days
func (s *ItemService) ListExpiring(ctx context.Context, tenantID uuid.UUID, days int, filter ItemListFilter) ([]InventoryItemResponse, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, days)

	items, err := s.itemRepo.FindExpiring(ctx, tenantID, cutoff, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}

	responses := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		responses = append(responses, ToInventoryItemResponse(&items[i]))
	}
	return responses, nil
}

// StockSummary is the aggregate position of one product
type StockSummary struct {
	ProductID     uuid.UUID       `json:"productId"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	LotCount      int             `json:"lotCount"`
	TotalValue    decimal.Decimal `json:"totalValue"`
}

// ProductStockSummary sums the on-hand position of a product across
// its lots
func (s *ItemService) ProductStockSummary(ctx context.Context, tenantID, productID uuid.UUID) (*StockSummary, error) {
	lots, err := s.itemRepo.FindByProduct(ctx, tenantID, productID, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}

	summary := &StockSummary{
		ProductID:     productID,
		TotalQuantity: decimal.Zero,
		TotalValue:    decimal.Zero,
	}
	for i := range lots {
		if lots[i].QuantityAvailable.IsZero() {
			continue
		}
		summary.TotalQuantity = summary.TotalQuantity.Add(lots[i].QuantityAvailable)
		summary.TotalValue = summary.TotalValue.Add(lots[i].TotalValue())
		summary.LotCount++
	}
	return summary, nil
}

func (s *ItemService) toDomainFilter(filter ItemListFilter) shared.Filter {
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	domainFilter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "received_date",
		OrderDir: "asc",
		Filters:  make(map[string]interface{}),
	}
	if filter.FacilityID != nil {
		domainFilter.Filters["facility_id"] = *filter.FacilityID
	}
	if filter.HasStock != nil && *filter.HasStock {
		domainFilter.Filters["has_stock"] = true
	}
	return domainFilter
}
