package alert

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Filter narrows an active alert listing
type Filter struct {
	Type     AlertType
	Priority Priority
	Limit    int
}

// Counts groups alert totals
type Counts struct {
	ByStatus   map[Status]int64    `json:"by_status"`
	ByPriority map[Priority]int64  `json:"by_priority"`
	ByType     map[AlertType]int64 `json:"by_type"`
}

// AlertRepository defines the interface for alert persistence
type AlertRepository interface {
	// Create inserts a new active alert. Returns shared.ErrAlreadyExists when an
	// active alert with the same type and entity already exists.
	Create(ctx context.Context, alert *Alert) error

	// ExistsActive checks for an active alert of a type on an entity
	ExistsActive(ctx context.Context, alertType AlertType, entityID uuid.UUID) (bool, error)

	// FindByID finds an alert by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Alert, error)

	// Save updates an existing alert
	Save(ctx context.Context, alert *Alert) error

	// FindActive lists active alerts, most urgent and newest first
	FindActive(ctx context.Context, filter Filter) ([]Alert, error)

	// Counts returns totals grouped by status, by priority (active only) and by type (active only)
	Counts(ctx context.Context) (Counts, error)

	// FindActiveOlderThan lists active alerts created before the cutoff
	FindActiveOlderThan(ctx context.Context, cutoff time.Time) ([]Alert, error)
}
