package alert

import (
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/google/uuid"
)

// AlertResponse represents an alert in API responses
type AlertResponse struct {
	ID             uuid.UUID         `json:"id"`
	Type           string            `json:"type"`
	EntityType     string            `json:"entity_type"`
	EntityID       uuid.UUID         `json:"entity_id"`
	ProductID      *uuid.UUID        `json:"product_id,omitempty"`
	Title          string            `json:"title"`
	Message        string            `json:"message"`
	Priority       string            `json:"priority"`
	Status         string            `json:"status"`
	Data           map[string]string `json:"data,omitempty"`
	AcknowledgedAt *time.Time        `json:"acknowledged_at,omitempty"`
	ResolvedAt     *time.Time        `json:"resolved_at,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

// AlertListFilter represents filter options for the active alert list
type AlertListFilter struct {
	Type     string `form:"type" binding:"omitempty,oneof=expiry_warning low_stock batch_expired"`
	Priority string `form:"priority" binding:"omitempty,oneof=low medium high critical"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// ScanResult counts the outcome of one alert check
type ScanResult struct {
	Check   string `json:"check"`
	Scanned int    `json:"scanned"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
	Failed  int    `json:"failed"`
}

// ToAlertResponse converts a domain Alert to AlertResponse
func ToAlertResponse(a *alert.Alert) AlertResponse {
	return AlertResponse{
		ID:             a.ID,
		Type:           string(a.Type),
		EntityType:     string(a.EntityType),
		EntityID:       a.EntityID,
		ProductID:      a.ProductID,
		Title:          a.Title,
		Message:        a.Message,
		Priority:       string(a.Priority),
		Status:         string(a.Status),
		Data:           a.Data,
		AcknowledgedAt: a.AcknowledgedAt,
		ResolvedAt:     a.ResolvedAt,
		CreatedAt:      a.CreatedAt,
	}
}
