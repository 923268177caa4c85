package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/growops/backend/internal/application/ledger"
	"github.com/growops/backend/internal/domain/inventory"
)

// ActivityHandler handles activity journal API endpoints
type ActivityHandler struct {
	BaseHandler
	activityService *ledger.ActivityService
}

// NewActivityHandler creates a new ActivityHandler
func NewActivityHandler(activityService *ledger.ActivityService) *ActivityHandler {
	return &ActivityHandler{
		activityService: activityService,
	}
}

// GetByID godoc
// @ID           getActivityById
// @Summary      Get activity by ID
// @Description  Retrieve a single journal entry by its ID
// @Tags         activities
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Activity ID" format(uuid)
// @Success      200 {object} APIResponse[ledger.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/activities/{id} [get]
func (h *ActivityHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	activityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid activity ID format")
		return
	}

	activity, err := h.activityService.GetByID(c.Request.Context(), tenantID, activityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, activity)
}

// List godoc
// @ID           listActivities
// @Summary      List activities
// @Description  Retrieve a paginated list of journal entries with optional filtering
// @Tags         activities
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        activity_type query string false "Filter by activity type"
// @Param        entity_type query string false "Filter by entity type"
// @Param        entity_id query string false "Filter by entity ID" format(uuid)
// @Param        batch_id query string false "Filter by batch ID" format(uuid)
// @Param        start_date query string false "Filter by performed-at lower bound (RFC3339 or YYYY-MM-DD)"
// @Param        end_date query string false "Filter by performed-at upper bound (RFC3339 or YYYY-MM-DD)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledger.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/activities [get]
func (h *ActivityHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter, ok := h.bindActivityFilter(c)
	if !ok {
		return
	}

	activities, total, err := h.activityService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, activities, total, filter.Page, filter.PageSize)
}

// HistoryByItem godoc
// @ID           getItemMovementHistory
// @Summary      Get movement history for an inventory item
// @Description  Retrieve the journal entries that touched one lot, newest first
// @Tags         activities
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Inventory item ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledger.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/items/{id}/movements [get]
func (h *ActivityHandler) HistoryByItem(c *gin.Context) {
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

	filter, ok := h.bindActivityFilter(c)
	if !ok {
		return
	}

	activities, err := h.activityService.MovementHistoryByItem(c.Request.Context(), tenantID, itemID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, activities)
}

// HistoryByProduct godoc
// @ID           getProductMovementHistory
// @Summary      Get movement history for a product
// @Description  Retrieve the journal entries that touched any lot of one product, newest first
// @Tags         activities
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]ledger.ActivityResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/products/{id}/movements [get]
func (h *ActivityHandler) HistoryByProduct(c *gin.Context) {
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

	filter, ok := h.bindActivityFilter(c)
	if !ok {
		return
	}

	activities, err := h.activityService.MovementHistoryByProduct(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, activities)
}

func (h *ActivityHandler) bindActivityFilter(c *gin.Context) (ledger.ActivityListFilter, bool) {
	var filter ledger.ActivityListFilter
	filter.Page, filter.PageSize = parsePagination(c)

	if raw := c.Query("activity_type"); raw != "" {
		activityType := inventory.ActivityType(raw)
		filter.ActivityType = &activityType
	}
	filter.EntityType = c.Query("entity_type")

	var err error
	if filter.EntityID, err = optionalUUIDQuery(c, "entity_id"); err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return filter, false
	}
	if filter.BatchID, err = optionalUUIDQuery(c, "batch_id"); err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return filter, false
	}

	if raw := c.Query("start_date"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "Invalid start_date format")
			return filter, false
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := parseDateTime(raw)
		if err != nil {
			h.BadRequest(c, "Invalid end_date format")
			return filter, false
		}
		filter.EndDate = &t
	}
	return filter, true
}
