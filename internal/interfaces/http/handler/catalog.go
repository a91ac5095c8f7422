package handler

import (
	"context"
	"strings"

	catalogapp "github.com/freshchain/scms/internal/application/catalog"
	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogService is the read-only catalog surface the handler depends on
type CatalogService interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)
	ListProducts(ctx context.Context, filter catalogapp.ProductListFilter) ([]catalogapp.ProductResponse, int64, error)
	ListBatchesForProduct(ctx context.Context, productID uuid.UUID, statuses ...catalog.BatchStatus) ([]catalogapp.BatchResponse, error)
	ExpiringBatches(ctx context.Context, withinDays int) ([]catalogapp.BatchResponse, error)
}

// CatalogHandler handles product and batch lookups
type CatalogHandler struct {
	BaseHandler
	catalog     CatalogService
	defaultDays int
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalog CatalogService, defaultDays int) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, defaultDays: defaultDays}
}

// ListProducts godoc
// @ID           listProducts
// @Summary      List products
// @Tags         catalog
// @Produce      json
// @Param        search    query string false "Name or SKU search"
// @Param        category  query string false "Category"
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = 20
	}

	products, total, err := h.catalog.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// GetProduct godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response
// @Router       /products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ListBatches godoc
// @ID           listProductBatches
// @Summary      List a product's batches
// @Tags         catalog
// @Produce      json
// @Param        id     path  string true  "Product ID" format(uuid)
// @Param        status query string false "Comma separated batch statuses"
// @Success      200 {object} dto.Response{data=[]catalogapp.BatchResponse}
// @Router       /products/{id}/batches [get]
func (h *CatalogHandler) ListBatches(c *gin.Context) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var statuses []catalog.BatchStatus
	if raw := c.Query("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, catalog.BatchStatus(strings.ToLower(s)))
			}
		}
	}

	batches, err := h.catalog.ListBatchesForProduct(c.Request.Context(), id, statuses...)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}

// ExpiringBatches godoc
// @ID           listExpiringBatches
// @Summary      Batches expiring soon
// @Tags         catalog
// @Produce      json
// @Param        days query int false "Look-ahead days"
// @Success      200 {object} dto.Response{data=[]catalogapp.BatchResponse}
// @Router       /batches/expiring [get]
func (h *CatalogHandler) ExpiringBatches(c *gin.Context) {
	days, ok := h.QueryDays(c, h.defaultDays)
	if !ok {
		return
	}

	batches, err := h.catalog.ExpiringBatches(c.Request.Context(), days)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, batches)
}
