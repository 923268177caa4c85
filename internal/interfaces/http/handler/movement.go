package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/growops/backend/internal/application/ledger"
)

// MovementHandler handles stock movement API endpoints
type MovementHandler struct {
	BaseHandler
	movementService *ledger.MovementService
}

// NewMovementHandler creates a new MovementHandler
func NewMovementHandler(movementService *ledger.MovementService) *MovementHandler {
	return &MovementHandler{
		movementService: movementService,
	}
}

// Record godoc
// @ID           recordMovement
// @Summary      Record a stock movement
// @Description  Apply a single inventory movement (receipt, consumption, waste, mortality, correction, transfer or transformation) and journal it atomically
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-User-ID header string false "Acting user ID"
// @Param        request body ledger.MovementRequest true "Movement request"
// @Success      201 {object} APIResponse[ledger.MovementResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/movements [post]
func (h *MovementHandler) Record(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledger.MovementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	result, err := h.movementService.RecordMovement(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}
