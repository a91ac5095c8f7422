package alert

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AlertType classifies what an alert is about
type AlertType string

const (
	AlertTypeExpiryWarning AlertType = "expiry_warning"
	AlertTypeLowStock      AlertType = "low_stock"
	AlertTypeBatchExpired  AlertType = "batch_expired"
)

// IsValid returns true if the type is known
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeExpiryWarning, AlertTypeLowStock, AlertTypeBatchExpired:
		return true
	}
	return false
}

// EntityType is the kind of record an alert targets
type EntityType string

const (
	EntityTypeBatch           EntityType = "batch"
	EntityTypeInventoryRecord EntityType = "inventory_record"
)

// Priority is the urgency of an alert
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// IsValid returns true if the priority is known
func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Status is the lifecycle status of an alert
type Status string

const (
	StatusActive       Status = "active"
	StatusAcknowledged Status = "acknowledged"
	StatusResolved     Status = "resolved"
	StatusDismissed    Status = "dismissed"
)

// IsValid returns true if the status is known
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusAcknowledged, StatusResolved, StatusDismissed:
		return true
	}
	return false
}

// IsTerminal returns true for resolved and dismissed alerts
func (s Status) IsTerminal() bool {
	return s == StatusResolved || s == StatusDismissed
}

// Alert is a deduplicated notice about a batch or inventory record.
// At most one active alert exists per (Type, EntityID).
type Alert struct {
	shared.BaseAggregateRoot
	Type           AlertType
	EntityType     EntityType
	EntityID       uuid.UUID
	ProductID      *uuid.UUID
	Title          string
	Message        string
	Priority       Priority
	Status         Status
	Data           map[string]string
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
}

// NewAlert creates an active alert and records an AlertRaised event
func NewAlert(alertType AlertType, entityType EntityType, entityID uuid.UUID, title, message string, priority Priority) (*Alert, error) {
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("INVALID_ALERT_TYPE", fmt.Sprintf("Unknown alert type: %s", alertType))
	}
	if entityID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Alert target cannot be empty")
	}
	if !priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", fmt.Sprintf("Unknown priority: %s", priority))
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_TITLE", "Alert title cannot be empty")
	}

	a := &Alert{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Type:              alertType,
		EntityType:        entityType,
		EntityID:          entityID,
		Title:             title,
		Message:           message,
		Priority:          priority,
		Status:            StatusActive,
		Data:              make(map[string]string),
	}
	a.AddDomainEvent(NewAlertRaisedEvent(a))
	return a, nil
}

// ForProduct records the product the alert concerns
func (a *Alert) ForProduct(productID uuid.UUID) *Alert {
	a.ProductID = &productID
	return a
}

// WithData attaches a detail value
func (a *Alert) WithData(key, value string) *Alert {
	a.Data[key] = value
	return a
}

// Acknowledge marks an active alert as seen
func (a *Alert) Acknowledge() error {
	if a.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active alerts can be acknowledged")
	}
	now := time.Now()
	a.Status = StatusAcknowledged
	a.AcknowledgedAt = &now
	a.UpdatedAt = now
	return nil
}

// Resolve closes the alert
func (a *Alert) Resolve() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Alert is already %s", a.Status))
	}
	now := time.Now()
	a.Status = StatusResolved
	a.ResolvedAt = &now
	a.UpdatedAt = now
	return nil
}

// Dismiss closes the alert without action
func (a *Alert) Dismiss() error {
	if a.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Alert is already %s", a.Status))
	}
	a.Status = StatusDismissed
	a.UpdatedAt = time.Now()
	return nil
}

// ExpiryPriority escalates as the batch gets closer to its expiration date
func ExpiryPriority(daysUntilExpiry int) Priority {
	switch {
	case daysUntilExpiry <= 1:
		return PriorityCritical
	case daysUntilExpiry <= 3:
		return PriorityHigh
	default:
		return PriorityMedium
	}
}

// LowStockPriority ranks a low-stock record: critical once the deficit below the
// reorder point is at least what is left on hand, medium otherwise
func LowStockPriority(onHand, reorderPoint decimal.Decimal) Priority {
	deficit := reorderPoint.Sub(onHand)
	if deficit.GreaterThanOrEqual(onHand) {
		return PriorityCritical
	}
	return PriorityMedium
}
