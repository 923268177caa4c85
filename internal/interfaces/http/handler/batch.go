package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/growops/backend/internal/application/cultivation"
	"github.com/growops/backend/internal/domain/shared"
)

// BatchHandler handles cultivation batch API endpoints
type BatchHandler struct {
	BaseHandler
	batchService *cultivation.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *cultivation.BatchService) *BatchHandler {
	return &BatchHandler{
		batchService: batchService,
	}
}

// Create godoc
// @ID           createBatch
// @Summary      Create a cultivation batch
// @Description  Start a new batch in its initial growth phase, optionally with individually tracked plants
// @Tags         cultivation
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body cultivation.CreateBatchRequest true "Batch details"
// @Success      201 {object} APIResponse[cultivation.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /cultivation/batches [post]
func (h *BatchHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req cultivation.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// GetByID godoc
// @ID           getBatchById
// @Summary      Get batch by ID
// @Description  Retrieve a cultivation batch by its ID
// @Tags         cultivation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} APIResponse[cultivation.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /cultivation/batches/{id} [get]
func (h *BatchHandler) GetByID(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), tenantID, batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// List godoc
// @ID           listBatches
// @Summary      List cultivation batches
// @Description  Retrieve a paginated list of batches with optional filtering
// @Tags         cultivation
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        status query string false "Filter by batch status"
// @Param        current_phase query string false "Filter by growth phase"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} APIResponse[[]cultivation.BatchResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /cultivation/batches [get]
func (h *BatchHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	filter := shared.DefaultFilter()
	filter.Page, filter.PageSize = parsePagination(c)
	if status := c.Query("status"); status != "" {
		filter.Filters["status"] = status
	}
	if phase := c.Query("current_phase"); phase != "" {
		filter.Filters["current_phase"] = phase
	}

	batches, total, err := h.batchService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, batches, total, filter.Page, filter.PageSize)
}

// TransitionPhase godoc
// @ID           transitionBatchPhase
// @Summary      Transition a batch to a new growth phase
// @Description  Move a batch forward through its lifecycle; a linked lot is transformed to the target product in the same transaction
// @Tags         cultivation
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-User-ID header string false "Acting user ID"
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body cultivation.TransitionPhaseRequest true "Phase transition details"
// @Success      200 {object} APIResponse[cultivation.LifecycleResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /cultivation/batches/{id}/phase-transitions [post]
func (h *BatchHandler) TransitionPhase(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req cultivation.TransitionPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	result, err := h.batchService.TransitionPhase(c.Request.Context(), tenantID, batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Harvest godoc
// @ID           harvestBatch
// @Summary      Harvest a batch
// @Description  Close a batch and produce harvested plant material as a new inventory lot
// @Tags         cultivation
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-User-ID header string false "Acting user ID"
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body cultivation.HarvestRequest true "Harvest details"
// @Success      200 {object} APIResponse[cultivation.LifecycleResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /cultivation/batches/{id}/harvest [post]
func (h *BatchHandler) Harvest(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid batch ID format")
		return
	}

	var req cultivation.HarvestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	result, err := h.batchService.Harvest(c.Request.Context(), tenantID, batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
