package models

import (
	"encoding/json"
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertModel is the persistence model for the Alert aggregate root.
// At most one active alert may exist per (type, entity).
type AlertModel struct {
	AggregateModel
	Type           alert.AlertType  `gorm:"column:alert_type;type:varchar(30);not null;uniqueIndex:idx_alert_active_entity,priority:1,where:status = 'active'"`
	EntityType     alert.EntityType `gorm:"type:varchar(30);not null"`
	EntityID       uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_alert_active_entity,priority:2,where:status = 'active';index"`
	ProductID      *uuid.UUID       `gorm:"type:uuid;index"`
	Title          string           `gorm:"type:varchar(300);not null"`
	Message        string           `gorm:"type:text"`
	Priority       alert.Priority   `gorm:"type:varchar(20);not null;index"`
	Status         alert.Status     `gorm:"type:varchar(20);not null;default:'active';index"`
	DataJSON       string           `gorm:"column:data;type:jsonb;default:'{}'"`
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time
}

// TableName returns the table name for GORM
func (AlertModel) TableName() string {
	return "alerts"
}

// ToDomain converts the persistence model to a domain Alert entity.
func (m *AlertModel) ToDomain() *alert.Alert {
	a := &alert.Alert{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Type:              m.Type,
		EntityType:        m.EntityType,
		EntityID:          m.EntityID,
		ProductID:         m.ProductID,
		Title:             m.Title,
		Message:           m.Message,
		Priority:          m.Priority,
		Status:            m.Status,
		Data:              make(map[string]string),
		AcknowledgedAt:    m.AcknowledgedAt,
		ResolvedAt:        m.ResolvedAt,
	}
	if m.DataJSON != "" && m.DataJSON != "{}" {
		if err := json.Unmarshal([]byte(m.DataJSON), &a.Data); err != nil {
			modelLogger.Warn("failed to parse alert data JSON",
				zap.String("alert_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return a
}

// FromDomain populates the persistence model from a domain Alert entity.
func (m *AlertModel) FromDomain(a *alert.Alert) {
	m.FromDomainAggregateRoot(a.BaseAggregateRoot)
	m.Type = a.Type
	m.EntityType = a.EntityType
	m.EntityID = a.EntityID
	m.ProductID = a.ProductID
	m.Title = a.Title
	m.Message = a.Message
	m.Priority = a.Priority
	m.Status = a.Status
	m.AcknowledgedAt = a.AcknowledgedAt
	m.ResolvedAt = a.ResolvedAt
	m.DataJSON = "{}"
	if len(a.Data) > 0 {
		if jsonBytes, err := json.Marshal(a.Data); err == nil {
			m.DataJSON = string(jsonBytes)
		}
	}
}

// AlertModelFromDomain creates a new persistence model from a domain Alert entity.
func AlertModelFromDomain(a *alert.Alert) *AlertModel {
	m := &AlertModel{}
	m.FromDomain(a)
	return m
}
