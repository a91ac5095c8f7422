package handler

import (
	"errors"
	"net/http"
	"testing"

	alertapp "github.com/freshchain/scms/internal/application/alert"
	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupAlertRoutes(scanner AlertScanner, alerts AlertService) *gin.Engine {
	h := NewAlertHandler(scanner, alerts, 7)
	engine := newTestEngine()
	engine.POST("/api/v1/alerts/check/expiry", h.CheckExpiry)
	engine.POST("/api/v1/alerts/check/low-stock", h.CheckLowStock)
	engine.POST("/api/v1/alerts/check/expired-batches", h.CheckExpiredBatches)
	engine.GET("/api/v1/alerts", h.ListActive)
	engine.GET("/api/v1/alerts/summary", h.Summary)
	engine.POST("/api/v1/alerts/:id/acknowledge", h.Acknowledge)
	engine.POST("/api/v1/alerts/:id/resolve", h.Resolve)
	engine.POST("/api/v1/alerts/:id/dismiss", h.Dismiss)
	return engine
}

func TestAlertHandler_Checks(t *testing.T) {
	t.Run("expiry uses default days", func(t *testing.T) {
		scanner := new(mockAlertScanner)
		scanner.On("CheckExpiry", mock.Anything, 7).
			Return(alertapp.ScanResult{Check: "expiry", Scanned: 4, Created: 3, Skipped: 1}, nil)

		w, resp := performRequest(t, setupAlertRoutes(scanner, new(mockAlertService)), http.MethodPost, "/api/v1/alerts/check/expiry", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got alertapp.ScanResult
		decodeData(t, resp, &got)
		assert.Equal(t, 3, got.Created)
		assert.Equal(t, 1, got.Skipped)
	})

	t.Run("low stock", func(t *testing.T) {
		scanner := new(mockAlertScanner)
		scanner.On("CheckLowStock", mock.Anything).Return(alertapp.ScanResult{Check: "low_stock", Created: 2}, nil)

		w, _ := performRequest(t, setupAlertRoutes(scanner, new(mockAlertService)), http.MethodPost, "/api/v1/alerts/check/low-stock", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		scanner.AssertExpectations(t)
	})

	t.Run("expired batches failure", func(t *testing.T) {
		scanner := new(mockAlertScanner)
		scanner.On("CheckExpiredBatches", mock.Anything).Return(alertapp.ScanResult{}, errors.New("db down"))

		w, resp := performRequest(t, setupAlertRoutes(scanner, new(mockAlertService)), http.MethodPost, "/api/v1/alerts/check/expired-batches", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, dto.ErrCodeInternal, resp.Error.Code)
	})
}

func TestAlertHandler_ListActive(t *testing.T) {
	t.Run("filters", func(t *testing.T) {
		alerts := new(mockAlertService)
		alerts.On("ListActive", mock.Anything, alertapp.AlertListFilter{Type: "low_stock", Priority: "high", Limit: 10}).
			Return([]alertapp.AlertResponse{{Type: "low_stock", Priority: "high"}}, nil)

		w, resp := performRequest(t, setupAlertRoutes(new(mockAlertScanner), alerts), http.MethodGet,
			"/api/v1/alerts?type=low_stock&priority=high&limit=10", nil)

		require.Equal(t, http.StatusOK, w.Code)
		var got []alertapp.AlertResponse
		decodeData(t, resp, &got)
		assert.Len(t, got, 1)
	})

	t.Run("unknown type", func(t *testing.T) {
		alerts := new(mockAlertService)
		w, resp := performRequest(t, setupAlertRoutes(new(mockAlertScanner), alerts), http.MethodGet, "/api/v1/alerts?type=overheat", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "type", resp.Error.Details[0].Field)
	})
}

func TestAlertHandler_Summary(t *testing.T) {
	alerts := new(mockAlertService)
	alerts.On("Summary", mock.Anything).Return(&alert.Counts{
		ByStatus:   map[alert.Status]int64{alert.StatusActive: 5},
		ByPriority: map[alert.Priority]int64{alert.PriorityCritical: 1},
		ByType:     map[alert.AlertType]int64{alert.AlertTypeLowStock: 5},
	}, nil)

	w, resp := performRequest(t, setupAlertRoutes(new(mockAlertScanner), alerts), http.MethodGet, "/api/v1/alerts/summary", nil)

	require.Equal(t, http.StatusOK, w.Code)
	var got alert.Counts
	decodeData(t, resp, &got)
	assert.Equal(t, int64(5), got.ByStatus[alert.StatusActive])
}

func TestAlertHandler_Transitions(t *testing.T) {
	for _, tc := range []struct {
		method string
		path   string
		status string
	}{
		{"Acknowledge", "acknowledge", "acknowledged"},
		{"Resolve", "resolve", "resolved"},
		{"Dismiss", "dismiss", "dismissed"},
	} {
		t.Run(tc.path, func(t *testing.T) {
			id := uuid.New()
			alerts := new(mockAlertService)
			alerts.On(tc.method, mock.Anything, id).Return(&alertapp.AlertResponse{ID: id, Status: tc.status}, nil)

			w, resp := performRequest(t, setupAlertRoutes(new(mockAlertScanner), alerts), http.MethodPost,
				"/api/v1/alerts/"+id.String()+"/"+tc.path, nil)

			require.Equal(t, http.StatusOK, w.Code)
			var got alertapp.AlertResponse
			decodeData(t, resp, &got)
			assert.Equal(t, tc.status, got.Status)
		})
	}

	t.Run("already closed", func(t *testing.T) {
		id := uuid.New()
		alerts := new(mockAlertService)
		alerts.On("Acknowledge", mock.Anything, id).Return(nil, shared.ErrInvalidState)

		w, resp := performRequest(t, setupAlertRoutes(new(mockAlertScanner), alerts), http.MethodPost,
			"/api/v1/alerts/"+id.String()+"/acknowledge", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)
	})
}
