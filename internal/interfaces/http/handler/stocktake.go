package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/growops/backend/internal/application/ledger"
)

// StocktakeHandler handles stocktake reconciliation API endpoints
type StocktakeHandler struct {
	BaseHandler
	stocktakeService *ledger.StocktakeService
}

// NewStocktakeHandler creates a new StocktakeHandler
func NewStocktakeHandler(stocktakeService *ledger.StocktakeService) *StocktakeHandler {
	return &StocktakeHandler{
		stocktakeService: stocktakeService,
	}
}

// Reconcile godoc
// @ID           reconcileStocktake
// @Summary      Reconcile a stocktake
// @Description  Apply counted quantities against the ledger; every divergent lot gets one correction, committed atomically
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        X-User-ID header string false "Acting user ID"
// @Param        request body ledger.StocktakeRequest true "Stocktake counts"
// @Success      200 {object} APIResponse[ledger.StocktakeResult]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Failure      500 {object} ErrorResponse
// @Router       /inventory/stocktakes [post]
func (h *StocktakeHandler) Reconcile(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req ledger.StocktakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if req.PerformedBy == nil {
		if userID, err := getUserID(c); err == nil {
			req.PerformedBy = &userID
		}
	}

	result, err := h.stocktakeService.Reconcile(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
