package alert

import (
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeAlert is the aggregate type of alert events
const AggregateTypeAlert = "Alert"

// EventTypeAlertRaised is published once a new alert is stored
const EventTypeAlertRaised = "alert.raised"

// AlertRaisedEvent carries what an external notifier needs to deliver an alert
type AlertRaisedEvent struct {
	shared.BaseDomainEvent
	AlertID    uuid.UUID  `json:"alert_id"`
	AlertType  AlertType  `json:"alert_type"`
	EntityType EntityType `json:"entity_type"`
	EntityID   uuid.UUID  `json:"entity_id"`
	Title      string     `json:"title"`
	Message    string     `json:"message"`
	Priority   Priority   `json:"priority"`
}

// NewAlertRaisedEvent creates a new AlertRaisedEvent
func NewAlertRaisedEvent(a *Alert) *AlertRaisedEvent {
	return &AlertRaisedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeAlertRaised, AggregateTypeAlert, a.ID),
		AlertID:         a.ID,
		AlertType:       a.Type,
		EntityType:      a.EntityType,
		EntityID:        a.EntityID,
		Title:           a.Title,
		Message:         a.Message,
		Priority:        a.Priority,
	}
}
