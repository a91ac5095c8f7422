package alert

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

func seedAlert(t *testing.T, repo *memoryAlertRepository, alertType alert.AlertType, priority alert.Priority, createdAt time.Time) *alert.Alert {
	t.Helper()
	a, err := alert.NewAlert(alertType, alert.EntityTypeBatch, uuid.New(), "seeded", "", priority)
	require.NoError(t, err)
	a.CreatedAt = createdAt
	require.NoError(t, repo.Create(context.Background(), a))
	return a
}

func TestAlertService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryAlertRepository()
	svc := NewAlertService(repo, nil)
	a := seedAlert(t, repo, alert.AlertTypeLowStock, alert.PriorityHigh, time.Now())

	resp, err := svc.Acknowledge(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "acknowledged", resp.Status)

	_, err = svc.Acknowledge(ctx, a.ID)
	assert.ErrorContains(t, err, "Only active alerts")

	resp, err = svc.Dismiss(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "dismissed", resp.Status)

	_, err = svc.Resolve(ctx, a.ID)
	domainErr, ok := shared.AsDomainError(err)
	require.True(t, ok)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)

	_, err = svc.Resolve(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestAlertService_ListAndSummary(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryAlertRepository()
	svc := NewAlertService(repo, nil)

	seedAlert(t, repo, alert.AlertTypeExpiryWarning, alert.PriorityCritical, time.Now())
	seedAlert(t, repo, alert.AlertTypeExpiryWarning, alert.PriorityMedium, time.Now())
	done := seedAlert(t, repo, alert.AlertTypeLowStock, alert.PriorityHigh, time.Now())
	_, err := svc.Resolve(ctx, done.ID)
	require.NoError(t, err)

	active, err := svc.ListActive(ctx, AlertListFilter{Type: "expiry_warning"})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	critical, err := svc.ListActive(ctx, AlertListFilter{Priority: "critical"})
	require.NoError(t, err)
	assert.Len(t, critical, 1)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.ByStatus[alert.StatusActive])
	assert.Equal(t, int64(1), summary.ByStatus[alert.StatusResolved])
	assert.Equal(t, int64(2), summary.ByType[alert.AlertTypeExpiryWarning])
	assert.Zero(t, summary.ByType[alert.AlertTypeLowStock])
}

func TestAlertService_CleanupStale(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	repo := newMemoryAlertRepository()
	svc := NewAlertService(repo, nil)
	svc.SetClock(func() time.Time { return now })

	old := seedAlert(t, repo, alert.AlertTypeExpiryWarning, alert.PriorityMedium, now.AddDate(0, 0, -31))
	fresh := seedAlert(t, repo, alert.AlertTypeExpiryWarning, alert.PriorityMedium, now.AddDate(0, 0, -2))

	count, err := svc.CleanupStale(ctx, 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stored, err := repo.FindByID(ctx, old.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusResolved, stored.Status)

	stored, err = repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, alert.StatusActive, stored.Status)

	_, err = svc.CleanupStale(ctx, 0)
	assert.True(t, shared.IsValidationError(err))
}
