package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAlert(t *testing.T, alertType alert.AlertType, entityID uuid.UUID, priority alert.Priority) *alert.Alert {
	t.Helper()
	entityType := alert.EntityTypeBatch
	if alertType == alert.AlertTypeLowStock {
		entityType = alert.EntityTypeInventoryRecord
	}
	a, err := alert.NewAlert(alertType, entityType, entityID, "title", "message", priority)
	require.NoError(t, err)
	return a
}

func TestGormAlertRepository_ActiveUniqueness(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAlertRepository(db)
	ctx := context.Background()
	batchID := uuid.New()

	first := newTestAlert(t, alert.AlertTypeExpiryWarning, batchID, alert.PriorityHigh)
	first.WithData("batch_number", "B-1")
	require.NoError(t, repo.Create(ctx, first))

	exists, err := repo.ExistsActive(ctx, alert.AlertTypeExpiryWarning, batchID)
	require.NoError(t, err)
	assert.True(t, exists)

	dup := newTestAlert(t, alert.AlertTypeExpiryWarning, batchID, alert.PriorityCritical)
	assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)

	other := newTestAlert(t, alert.AlertTypeBatchExpired, batchID, alert.PriorityCritical)
	require.NoError(t, repo.Create(ctx, other), "different type on the same entity is allowed")

	require.NoError(t, first.Resolve())
	require.NoError(t, repo.Save(ctx, first))

	exists, err = repo.ExistsActive(ctx, alert.AlertTypeExpiryWarning, batchID)
	require.NoError(t, err)
	assert.False(t, exists)

	again := newTestAlert(t, alert.AlertTypeExpiryWarning, batchID, alert.PriorityCritical)
	require.NoError(t, repo.Create(ctx, again), "a resolved alert frees the slot")

	found, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusResolved, found.Status)
	assert.NotNil(t, found.ResolvedAt)
	assert.Equal(t, "B-1", found.Data["batch_number"])
}

func TestGormAlertRepository_FindActiveAndCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewGormAlertRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 7, 1, 8, 0, 0, 0, time.UTC)
	create := func(alertType alert.AlertType, priority alert.Priority, age time.Duration) *alert.Alert {
		a := newTestAlert(t, alertType, uuid.New(), priority)
		a.CreatedAt = base.Add(-age)
		a.UpdatedAt = a.CreatedAt
		require.NoError(t, repo.Create(ctx, a))
		return a
	}

	medium := create(alert.AlertTypeLowStock, alert.PriorityMedium, time.Hour)
	criticalOld := create(alert.AlertTypeExpiryWarning, alert.PriorityCritical, 48*time.Hour)
	criticalNew := create(alert.AlertTypeExpiryWarning, alert.PriorityCritical, time.Minute)
	high := create(alert.AlertTypeLowStock, alert.PriorityHigh, 72*time.Hour)
	dismissed := create(alert.AlertTypeLowStock, alert.PriorityCritical, time.Hour)
	require.NoError(t, dismissed.Dismiss())
	require.NoError(t, repo.Save(ctx, dismissed))

	t.Run("urgency order", func(t *testing.T) {
		alerts, err := repo.FindActive(ctx, alert.Filter{})
		require.NoError(t, err)
		require.Len(t, alerts, 4)
		assert.Equal(t, criticalNew.ID, alerts[0].ID)
		assert.Equal(t, criticalOld.ID, alerts[1].ID)
		assert.Equal(t, high.ID, alerts[2].ID)
		assert.Equal(t, medium.ID, alerts[3].ID)
	})

	t.Run("filters", func(t *testing.T) {
		alerts, err := repo.FindActive(ctx, alert.Filter{Type: alert.AlertTypeLowStock})
		require.NoError(t, err)
		assert.Len(t, alerts, 2)

		alerts, err = repo.FindActive(ctx, alert.Filter{Priority: alert.PriorityCritical, Limit: 1})
		require.NoError(t, err)
		require.Len(t, alerts, 1)
		assert.Equal(t, criticalNew.ID, alerts[0].ID)
	})

	t.Run("counts", func(t *testing.T) {
		counts, err := repo.Counts(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(4), counts.ByStatus[alert.StatusActive])
		assert.Equal(t, int64(1), counts.ByStatus[alert.StatusDismissed])
		assert.Equal(t, int64(2), counts.ByPriority[alert.PriorityCritical])
		assert.Equal(t, int64(1), counts.ByPriority[alert.PriorityHigh])
		assert.Equal(t, int64(2), counts.ByType[alert.AlertTypeLowStock])
		assert.Equal(t, int64(2), counts.ByType[alert.AlertTypeExpiryWarning])
	})

	t.Run("older than", func(t *testing.T) {
		alerts, err := repo.FindActiveOlderThan(ctx, base.Add(-24*time.Hour))
		require.NoError(t, err)
		require.Len(t, alerts, 2)
		assert.Equal(t, high.ID, alerts[0].ID)
		assert.Equal(t, criticalOld.ID, alerts[1].ID)
	})
}

func TestGormAlertRepository_SaveMissing(t *testing.T) {
	repo := NewGormAlertRepository(newTestDB(t))
	a := newTestAlert(t, alert.AlertTypeLowStock, uuid.New(), alert.PriorityLow)
	assert.ErrorIs(t, repo.Save(context.Background(), a), shared.ErrNotFound)
}
