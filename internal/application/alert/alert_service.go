package alert

import (
	"context"
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlertService manages the lifecycle of raised alerts
type AlertService struct {
	alertRepo alert.AlertRepository
	clock     shared.Clock
	logger    *zap.Logger
}

// NewAlertService creates a new AlertService
func NewAlertService(alertRepo alert.AlertRepository, logger *zap.Logger) *AlertService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertService{
		alertRepo: alertRepo,
		clock:     shared.SystemClock,
		logger:    logger,
	}
}

// SetClock overrides the clock used for cleanup cutoffs
func (s *AlertService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Acknowledge marks an active alert as seen
func (s *AlertService) Acknowledge(ctx context.Context, id uuid.UUID) (*AlertResponse, error) {
	return s.transition(ctx, id, (*alert.Alert).Acknowledge)
}

// Resolve closes an alert
func (s *AlertService) Resolve(ctx context.Context, id uuid.UUID) (*AlertResponse, error) {
	return s.transition(ctx, id, (*alert.Alert).Resolve)
}

// Dismiss closes an alert without action
func (s *AlertService) Dismiss(ctx context.Context, id uuid.UUID) (*AlertResponse, error) {
	return s.transition(ctx, id, (*alert.Alert).Dismiss)
}

// ListActive lists active alerts, most urgent first
func (s *AlertService) ListActive(ctx context.Context, filter AlertListFilter) ([]AlertResponse, error) {
	alerts, err := s.alertRepo.FindActive(ctx, alert.Filter{
		Type:     alert.AlertType(filter.Type),
		Priority: alert.Priority(filter.Priority),
		Limit:    filter.Limit,
	})
	if err != nil {
		return nil, err
	}
	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToAlertResponse(&alerts[i])
	}
	return responses, nil
}

// Summary counts alerts by status, and active alerts by priority and type
func (s *AlertService) Summary(ctx context.Context) (*alert.Counts, error) {
	counts, err := s.alertRepo.Counts(ctx)
	if err != nil {
		return nil, err
	}
	return &counts, nil
}

// CleanupStale resolves active alerts created more than olderThan ago
func (s *AlertService) CleanupStale(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		return 0, shared.NewDomainError("INVALID_INPUT", "Cleanup age must be positive")
	}
	stale, err := s.alertRepo.FindActiveOlderThan(ctx, s.clock().Add(-olderThan))
	if err != nil {
		return 0, err
	}

	resolved := 0
	for i := range stale {
		a := &stale[i]
		if err := a.Resolve(); err != nil {
			continue
		}
		if err := s.alertRepo.Save(ctx, a); err != nil {
			s.logger.Warn("Failed to resolve stale alert",
				zap.String("alert_id", a.ID.String()),
				zap.Error(err),
			)
			continue
		}
		resolved++
	}

	s.logger.Info("Resolved stale alerts", zap.Int("count", resolved), zap.Duration("older_than", olderThan))
	return resolved, nil
}

func (s *AlertService) transition(ctx context.Context, id uuid.UUID, apply func(*alert.Alert) error) (*AlertResponse, error) {
	a, err := s.alertRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(a); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	response := ToAlertResponse(a)
	return &response, nil
}
