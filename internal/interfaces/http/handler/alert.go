package handler

import (
	"context"

	alertapp "github.com/freshchain/scms/internal/application/alert"
	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AlertScanner runs the alert checks on demand
type AlertScanner interface {
	CheckExpiry(ctx context.Context, daysAhead int) (alertapp.ScanResult, error)
	CheckLowStock(ctx context.Context) (alertapp.ScanResult, error)
	CheckExpiredBatches(ctx context.Context) (alertapp.ScanResult, error)
}

// AlertService manages alert lifecycle and queries
type AlertService interface {
	Acknowledge(ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error)
	Resolve(ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error)
	Dismiss(ctx context.Context, id uuid.UUID) (*alertapp.AlertResponse, error)
	ListActive(ctx context.Context, filter alertapp.AlertListFilter) ([]alertapp.AlertResponse, error)
	Summary(ctx context.Context) (*alert.Counts, error)
}

// AlertHandler handles alert scan and lifecycle endpoints
type AlertHandler struct {
	BaseHandler
	scanner     AlertScanner
	alerts      AlertService
	defaultDays int
}

// NewAlertHandler creates a new AlertHandler
func NewAlertHandler(scanner AlertScanner, alerts AlertService, defaultDays int) *AlertHandler {
	return &AlertHandler{scanner: scanner, alerts: alerts, defaultDays: defaultDays}
}

// CheckExpiry godoc
// @ID           checkExpiryAlerts
// @Summary      Run the expiry warning check
// @Tags         alerts
// @Produce      json
// @Param        days query int false "Look-ahead days"
// @Success      200 {object} dto.Response{data=alertapp.ScanResult}
// @Router       /alerts/check/expiry [post]
func (h *AlertHandler) CheckExpiry(c *gin.Context) {
	days, ok := h.QueryDays(c, h.defaultDays)
	if !ok {
		return
	}
	h.respondScan(c)(h.scanner.CheckExpiry(c.Request.Context(), days))
}

// CheckLowStock godoc
// @ID           checkLowStockAlerts
// @Summary      Run the low stock check
// @Tags         alerts
// @Produce      json
// @Success      200 {object} dto.Response{data=alertapp.ScanResult}
// @Router       /alerts/check/low-stock [post]
func (h *AlertHandler) CheckLowStock(c *gin.Context) {
	h.respondScan(c)(h.scanner.CheckLowStock(c.Request.Context()))
}

// CheckExpiredBatches godoc
// @ID           checkExpiredBatchAlerts
// @Summary      Expire past-date batches and alert on them
// @Tags         alerts
// @Produce      json
// @Success      200 {object} dto.Response{data=alertapp.ScanResult}
// @Router       /alerts/check/expired-batches [post]
func (h *AlertHandler) CheckExpiredBatches(c *gin.Context) {
	h.respondScan(c)(h.scanner.CheckExpiredBatches(c.Request.Context()))
}

func (h *AlertHandler) respondScan(c *gin.Context) func(alertapp.ScanResult, error) {
	return func(result alertapp.ScanResult, err error) {
		if err != nil {
			h.HandleError(c, err)
			return
		}
		h.Success(c, result)
	}
}

// ListActive godoc
// @ID           listActiveAlerts
// @Summary      List active alerts
// @Tags         alerts
// @Produce      json
// @Param        type     query string false "Alert type"
// @Param        priority query string false "Alert priority"
// @Param        limit    query int    false "Maximum alerts"
// @Success      200 {object} dto.Response{data=[]alertapp.AlertResponse}
// @Router       /alerts [get]
func (h *AlertHandler) ListActive(c *gin.Context) {
	var filter alertapp.AlertListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	alerts, err := h.alerts.ListActive(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, alerts)
}

// Summary godoc
// @ID           getAlertSummary
// @Summary      Alert counts by status, priority and type
// @Tags         alerts
// @Produce      json
// @Success      200 {object} dto.Response{data=alert.Counts}
// @Router       /alerts/summary [get]
func (h *AlertHandler) Summary(c *gin.Context) {
	counts, err := h.alerts.Summary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}

// Acknowledge godoc
// @ID           acknowledgeAlert
// @Summary      Acknowledge an alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=alertapp.AlertResponse}
// @Failure      404 {object} dto.Response
// @Failure      422 {object} dto.Response
// @Router       /alerts/{id}/acknowledge [post]
func (h *AlertHandler) Acknowledge(c *gin.Context) {
	h.transition(c, h.alerts.Acknowledge)
}

// Resolve godoc
// @ID           resolveAlert
// @Summary      Resolve an alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=alertapp.AlertResponse}
// @Router       /alerts/{id}/resolve [post]
func (h *AlertHandler) Resolve(c *gin.Context) {
	h.transition(c, h.alerts.Resolve)
}

// Dismiss godoc
// @ID           dismissAlert
// @Summary      Dismiss an alert
// @Tags         alerts
// @Produce      json
// @Param        id path string true "Alert ID" format(uuid)
// @Success      200 {object} dto.Response{data=alertapp.AlertResponse}
// @Router       /alerts/{id}/dismiss [post]
func (h *AlertHandler) Dismiss(c *gin.Context) {
	h.transition(c, h.alerts.Dismiss)
}

func (h *AlertHandler) transition(c *gin.Context, apply func(context.Context, uuid.UUID) (*alertapp.AlertResponse, error)) {
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	resp, err := apply(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
