package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const alertUrgencyOrder = "CASE priority WHEN 'critical' THEN 0 WHEN 'high' THEN 1 WHEN 'medium' THEN 2 ELSE 3 END ASC, created_at DESC"

// GormAlertRepository implements AlertRepository using GORM.
// Uniqueness of active alerts is enforced by a partial unique index on (alert_type, entity_id).
type GormAlertRepository struct {
	db *gorm.DB
}

// NewGormAlertRepository creates a new GormAlertRepository
func NewGormAlertRepository(db *gorm.DB) *GormAlertRepository {
	return &GormAlertRepository{db: db}
}

// Create inserts a new alert. A second active alert for the same type and entity
// is rejected by the database and reported as ErrAlreadyExists.
func (r *GormAlertRepository) Create(ctx context.Context, a *alert.Alert) error {
	if err := r.db.WithContext(ctx).Create(models.AlertModelFromDomain(a)).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// ExistsActive checks for an active alert of a type on an entity
func (r *GormAlertRepository) ExistsActive(ctx context.Context, alertType alert.AlertType, entityID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.AlertModel{}).
		Where("alert_type = ? AND entity_id = ? AND status = ?", alertType, entityID, alert.StatusActive).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindByID finds an alert by its ID
func (r *GormAlertRepository) FindByID(ctx context.Context, id uuid.UUID) (*alert.Alert, error) {
	var model models.AlertModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save updates an existing alert
func (r *GormAlertRepository) Save(ctx context.Context, a *alert.Alert) error {
	result := r.db.WithContext(ctx).
		Model(&models.AlertModel{}).
		Where("id = ?", a.ID).
		Updates(map[string]any{
			"status":          a.Status,
			"priority":        a.Priority,
			"acknowledged_at": a.AcknowledgedAt,
			"resolved_at":     a.ResolvedAt,
			"updated_at":      a.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindActive lists active alerts, most urgent and newest first
func (r *GormAlertRepository) FindActive(ctx context.Context, filter alert.Filter) ([]alert.Alert, error) {
	query := r.db.WithContext(ctx).Where("status = ?", alert.StatusActive)
	if filter.Type != "" {
		query = query.Where("alert_type = ?", filter.Type)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	return r.find(query.Order(alertUrgencyOrder))
}

// Counts returns totals grouped by status, and active totals grouped by priority and type
func (r *GormAlertRepository) Counts(ctx context.Context) (alert.Counts, error) {
	counts := alert.Counts{
		ByStatus:   make(map[alert.Status]int64),
		ByPriority: make(map[alert.Priority]int64),
		ByType:     make(map[alert.AlertType]int64),
	}

	byStatus, err := r.groupCount(ctx, "status", false)
	if err != nil {
		return counts, err
	}
	for _, row := range byStatus {
		counts.ByStatus[alert.Status(row.GroupKey)] = row.Total
	}

	byPriority, err := r.groupCount(ctx, "priority", true)
	if err != nil {
		return counts, err
	}
	for _, row := range byPriority {
		counts.ByPriority[alert.Priority(row.GroupKey)] = row.Total
	}

	byType, err := r.groupCount(ctx, "alert_type", true)
	if err != nil {
		return counts, err
	}
	for _, row := range byType {
		counts.ByType[alert.AlertType(row.GroupKey)] = row.Total
	}

	return counts, nil
}

// FindActiveOlderThan lists active alerts created before the cutoff
func (r *GormAlertRepository) FindActiveOlderThan(ctx context.Context, cutoff time.Time) ([]alert.Alert, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", alert.StatusActive, cutoff).
		Order("created_at ASC"))
}

type groupCountRow struct {
	GroupKey string
	Total    int64
}

func (r *GormAlertRepository) groupCount(ctx context.Context, column string, activeOnly bool) ([]groupCountRow, error) {
	var rows []groupCountRow
	query := r.db.WithContext(ctx).
		Model(&models.AlertModel{}).
		Select(column + " AS group_key, COUNT(*) AS total")
	if activeOnly {
		query = query.Where("status = ?", alert.StatusActive)
	}
	if err := query.Group(column).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormAlertRepository) find(query *gorm.DB) ([]alert.Alert, error) {
	var alertModels []models.AlertModel
	if err := query.Find(&alertModels).Error; err != nil {
		return nil, err
	}
	alerts := make([]alert.Alert, len(alertModels))
	for i := range alertModels {
		alerts[i] = *alertModels[i].ToDomain()
	}
	return alerts, nil
}

// Ensure GormAlertRepository implements AlertRepository
var _ alert.AlertRepository = (*GormAlertRepository)(nil)
