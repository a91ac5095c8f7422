package alert

import (
	"testing"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAlert(t *testing.T) *Alert {
	t.Helper()
	a, err := NewAlert(AlertTypeExpiryWarning, EntityTypeBatch, uuid.New(), "Batch B-1 expires in 2 days", "", PriorityHigh)
	require.NoError(t, err)
	return a
}

func TestNewAlert(t *testing.T) {
	a := newTestAlert(t)
	assert.Equal(t, StatusActive, a.Status)
	require.Len(t, a.GetDomainEvents(), 1)
	assert.Equal(t, EventTypeAlertRaised, a.GetDomainEvents()[0].EventType())

	tests := []struct {
		name      string
		alertType AlertType
		entityID  uuid.UUID
		title     string
		priority  Priority
		code      string
	}{
		{"unknown type", "bogus", uuid.New(), "t", PriorityLow, "INVALID_ALERT_TYPE"},
		{"nil entity", AlertTypeLowStock, uuid.Nil, "t", PriorityLow, "INVALID_ENTITY"},
		{"unknown priority", AlertTypeLowStock, uuid.New(), "t", "urgent", "INVALID_PRIORITY"},
		{"blank title", AlertTypeLowStock, uuid.New(), "  ", PriorityLow, "INVALID_TITLE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewAlert(tt.alertType, EntityTypeBatch, tt.entityID, tt.title, "", tt.priority)
			domainErr, ok := shared.AsDomainError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, domainErr.Code)
		})
	}
}

func TestAlert_Lifecycle(t *testing.T) {
	t.Run("acknowledge then resolve", func(t *testing.T) {
		a := newTestAlert(t)
		require.NoError(t, a.Acknowledge())
		assert.NotNil(t, a.AcknowledgedAt)
		assert.Error(t, a.Acknowledge())

		require.NoError(t, a.Resolve())
		assert.Equal(t, StatusResolved, a.Status)
		assert.NotNil(t, a.ResolvedAt)
	})

	t.Run("terminal states reject changes", func(t *testing.T) {
		a := newTestAlert(t)
		require.NoError(t, a.Dismiss())
		assert.Error(t, a.Resolve())
		assert.Error(t, a.Dismiss())
		assert.Error(t, a.Acknowledge())
	})
}

func TestExpiryPriority(t *testing.T) {
	assert.Equal(t, PriorityCritical, ExpiryPriority(0))
	assert.Equal(t, PriorityCritical, ExpiryPriority(1))
	assert.Equal(t, PriorityHigh, ExpiryPriority(2))
	assert.Equal(t, PriorityHigh, ExpiryPriority(3))
	assert.Equal(t, PriorityMedium, ExpiryPriority(4))
	assert.Equal(t, PriorityMedium, ExpiryPriority(7))
}

func TestLowStockPriority(t *testing.T) {
	d := decimal.NewFromInt
	tests := []struct {
		onHand, reorder int64
		want            Priority
	}{
		{0, 10, PriorityCritical},
		{25, 100, PriorityCritical},
		{50, 100, PriorityCritical},
		{51, 100, PriorityMedium},
		{75, 100, PriorityMedium},
		{100, 100, PriorityMedium},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LowStockPriority(d(tt.onHand), d(tt.reorder)), "on hand %d of %d", tt.onHand, tt.reorder)
	}
}
