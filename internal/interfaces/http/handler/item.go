package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/growops/backend/internal/application/ledger"
)

// ItemHandler handles inventory lot query API endpoints
type ItemHandler struct {
	BaseHandler
	itemService       *ledger.ItemService
	expirationService *ledger.LotExpirationService
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService *ledger.ItemService, expirationService *ledger.LotExpirationService) *ItemHandler {
	return &ItemHandler{
		itemService:       itemService,
		expirationService: expirationService,
	}
}

// GetByID godoc
// @ID           getInventoryItemById
// @Summary      Get inventory item by ID
// @Description  Retrieve a single inventory lot by its ID
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Inventory item ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items/{id} [get]
func (h *ItemHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid inventory item ID format")
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), tenantID, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// List godoc
// @ID           listInventoryItems
// @Summary      List inventory items
// @Description  Retrieve a paginated list of inventory lots with optional filtering
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        product_id query string false "Filter by product ID" format(uuid)
// @Param        facility_id query string false "Filter by facility ID" format(uuid)
// @Param        area_id query string false "Filter by area ID" format(uuid)
// @Param        has_stock query boolean false "Filter by stock availability"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledger.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items [get]
func (h *ItemHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, ok := h.bindItemFilter(c)
	if !ok {
		return
	}

	items, total, err := h.itemService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, items, total, filter.Page, filter.PageSize)
}

// ListExpiring godoc
// @ID           listExpiringItems
// @Summary      List expiring inventory items
// @Description  Retrieve lots whose expiration date falls within the given horizon
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        days query int false "Expiration horizon in days" default(30)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledger.InventoryItemResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items/expiring [get]
func (h *ItemHandler) ListExpiring(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 0 {
		h.BadRequest(c, "Invalid days value")
		return
	}

	filter, ok := h.bindItemFilter(c)
	if !ok {
		return
	}

	items, err := h.itemService.ListExpiring(c.Request.Context(), tenantID, days, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// StockSummary godoc
// @ID           getProductStockSummary
// @Summary      Get product stock summary
// @Description  Sum the on-hand position of a product across all of its lots
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.StockSummary]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/products/{id}/summary [get]
func (h *ItemHandler) StockSummary(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	summary, err := h.itemService.ProductStockSummary(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// ExpireOverdue godoc
// @ID           expireOverdueLots
// @Summary      Expire overdue lots
// @Description  Mark every lot whose expiration date has passed as expired
// @Tags         inventory
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Success      200 {object} APIResponse[ledger.ExpirationStats]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items/expire-overdue [post]
func (h *ItemHandler) ExpireOverdue(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	stats, err := h.expirationService.ExpireLots(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

func (h *ItemHandler) bindItemFilter(c *gin.Context) (ledger.ItemListFilter, bool) {
	var filter ledger.ItemListFilter
	filter.Page, filter.PageSize = parsePagination(c)

	var err error
	if filter.ProductID, err = optionalUUIDQuery(c, "product_id"); err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return filter, false
	}
	if filter.FacilityID, err = optionalUUIDQuery(c, "facility_id"); err != nil {
		h.BadRequest(c, "Invalid facility ID format")
		return filter, false
	}
	if filter.AreaID, err = optionalUUIDQuery(c, "area_id"); err != nil {
		h.BadRequest(c, "Invalid area ID format")
		return filter, false
	}
	if filter.HasStock, err = optionalBoolQuery(c, "has_stock"); err != nil {
		h.BadRequest(c, "Invalid has_stock value")
		return filter, false
	}
	return filter, true
}
