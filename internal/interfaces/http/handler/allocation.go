package handler

import (
	"context"

	inventoryapp "github.com/freshchain/scms/internal/application/inventory"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AllocationService is the allocation surface the handler depends on
type AllocationService interface {
	Plan(ctx context.Context, req inventoryapp.AllocationRequest) (*inventory.AllocationPlan, error)
}

// InventorySummaryService reports stock on hand
type InventorySummaryService interface {
	Summary(ctx context.Context, productID uuid.UUID) (*inventory.Summary, error)
}

// InventoryHandler handles stock and allocation preview endpoints
type InventoryHandler struct {
	BaseHandler
	allocations AllocationService
	stock       InventorySummaryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(allocations AllocationService, stock InventorySummaryService) *InventoryHandler {
	return &InventoryHandler{allocations: allocations, stock: stock}
}

// PlanAllocation godoc
// @ID           planAllocation
// @Summary      Preview an allocation
// @Description  Computes the batch split for a quantity without reserving stock. A shortfall is reported in the plan, not as an error.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AllocationRequest true "Allocation request"
// @Success      200 {object} dto.Response{data=inventory.AllocationPlan}
// @Failure      400 {object} dto.Response
// @Router       /allocations/plan [post]
func (h *InventoryHandler) PlanAllocation(c *gin.Context) {
	var req inventoryapp.AllocationRequest
	if !h.BindJSON(c, &req) {
		return
	}

	plan, err := h.allocations.Plan(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, plan)
}

// GetSummary godoc
// @ID           getInventorySummary
// @Summary      Stock summary for a product
// @Tags         inventory
// @Produce      json
// @Param        productId path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventory.Summary}
// @Failure      404 {object} dto.Response
// @Router       /inventory/summary/{productId} [get]
func (h *InventoryHandler) GetSummary(c *gin.Context) {
	productID, ok := h.ParseUUIDParam(c, "productId")
	if !ok {
		return
	}

	summary, err := h.stock.Summary(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
