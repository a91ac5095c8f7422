package alert

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/infrastructure/telemetry"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Check names
const (
	CheckExpiry         = "expiry"
	CheckLowStock       = "low_stock"
	CheckExpiredBatches = "expired_batches"
)

// ExpiringBatchFinder lists in-stock batches expiring within a number of days
type ExpiringBatchFinder interface {
	FindExpiringBatches(ctx context.Context, withinDays int) ([]catalog.Batch, error)
}

// ScanMetrics receives alert scan outcomes
type ScanMetrics interface {
	RecordAlertRaised(ctx context.Context, alertType, priority string)
}

// AlertScanner detects near-expiry batches, expired batches and low inventory and
// raises deduplicated alerts. It never changes stock quantities.
type AlertScanner struct {
	expiring       ExpiringBatchFinder
	batchRepo      catalog.BatchRepository
	recordRepo     inventory.RecordRepository
	alertRepo      alert.AlertRepository
	eventPublisher shared.EventPublisher
	metrics        ScanMetrics
	clock          shared.Clock
	logger         *zap.Logger
}

// NewAlertScanner creates a new AlertScanner
func NewAlertScanner(
	expiring ExpiringBatchFinder,
	batchRepo catalog.BatchRepository,
	recordRepo inventory.RecordRepository,
	alertRepo alert.AlertRepository,
	logger *zap.Logger,
) *AlertScanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertScanner{
		expiring:   expiring,
		batchRepo:  batchRepo,
		recordRepo: recordRepo,
		alertRepo:  alertRepo,
		clock:      shared.SystemClock,
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher the raised alerts are handed to
func (s *AlertScanner) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetMetrics sets the metrics sink
func (s *AlertScanner) SetMetrics(metrics ScanMetrics) {
	s.metrics = metrics
}

// SetClock overrides the clock used to determine today
func (s *AlertScanner) SetClock(clock shared.Clock) {
	s.clock = clock
}

// CheckExpiry raises an expiry warning for every batch expiring within daysAhead
// that has no active warning yet. Priority escalates as expiry approaches.
func (s *AlertScanner) CheckExpiry(ctx context.Context, daysAhead int) (ScanResult, error) {
	result := ScanResult{Check: CheckExpiry}
	batches, err := s.expiring.FindExpiringBatches(ctx, daysAhead)
	if err != nil {
		return result, fmt.Errorf("find expiring batches: %w", err)
	}

	today := shared.DateOf(s.clock())
	for i := range batches {
		batch := &batches[i]
		result.Scanned++

		days := batch.DaysUntilExpiry(today)
		a, err := alert.NewAlert(
			alert.AlertTypeExpiryWarning,
			alert.EntityTypeBatch,
			batch.ID,
			fmt.Sprintf("Batch %s expires in %d day(s)", batch.BatchNumber, days),
			fmt.Sprintf("Batch %s has %s units left and expires on %s",
				batch.BatchNumber, batch.CurrentQuantity.String(), batch.ExpirationDate.Format(time.DateOnly)),
			alert.ExpiryPriority(days),
		)
		if err == nil {
			a.ForProduct(batch.ProductID).
				WithData("batch_number", batch.BatchNumber).
				WithData("days_until_expiry", fmt.Sprintf("%d", days)).
				WithData("current_quantity", batch.CurrentQuantity.String())
		}
		s.tally(ctx, &result, a, err)
	}

	s.logResult(result)
	return result, nil
}

// CheckLowStock raises a low-stock alert for every inventory record at or below
// its reorder point that has no active low-stock alert yet
func (s *AlertScanner) CheckLowStock(ctx context.Context) (ScanResult, error) {
	result := ScanResult{Check: CheckLowStock}
	records, err := s.recordRepo.FindBelowReorderPoint(ctx)
	if err != nil {
		return result, fmt.Errorf("find low stock records: %w", err)
	}

	for i := range records {
		rec := &records[i]
		result.Scanned++
		if rec.ReorderPoint == nil {
			continue
		}

		a, err := alert.NewAlert(
			alert.AlertTypeLowStock,
			alert.EntityTypeInventoryRecord,
			rec.ID,
			fmt.Sprintf("Low stock at %s", rec.Location),
			fmt.Sprintf("%s units on hand at %s, reorder point %s",
				rec.QuantityOnHand.String(), rec.Location, rec.ReorderPoint.String()),
			alert.LowStockPriority(rec.QuantityOnHand, *rec.ReorderPoint),
		)
		if err == nil {
			a.ForProduct(rec.ProductID).
				WithData("location", rec.Location).
				WithData("quantity_on_hand", rec.QuantityOnHand.String()).
				WithData("reorder_point", rec.ReorderPoint.String()).
				WithData("deficit", rec.Deficit().String())
		}
		s.tally(ctx, &result, a, err)
	}

	s.logResult(result)
	return result, nil
}

// CheckExpiredBatches moves in-stock batches past their expiration date to expired
// and raises a critical alert for each
func (s *AlertScanner) CheckExpiredBatches(ctx context.Context) (ScanResult, error) {
	result := ScanResult{Check: CheckExpiredBatches}
	today := shared.DateOf(s.clock())
	batches, err := s.batchRepo.FindExpired(ctx, today)
	if err != nil {
		return result, fmt.Errorf("find expired batches: %w", err)
	}

	for i := range batches {
		batch := &batches[i]
		result.Scanned++

		if !batch.Status.CanTransitionTo(catalog.BatchStatusExpired) {
			s.skipRecord(&result, "expire batch", batch.ID.String(), shared.ErrInvalidState)
			continue
		}
		if err := s.batchRepo.MarkExpired(ctx, batch.ID); err != nil {
			s.skipRecord(&result, "mark batch expired", batch.ID.String(), err)
			continue
		}
		// Draws may have landed since FindExpired; report what is actually left.
		if fresh, err := s.batchRepo.FindByID(ctx, batch.ID); err == nil {
			batch.CurrentQuantity = fresh.CurrentQuantity
		}
		if err := batch.Expire(); err != nil {
			s.skipRecord(&result, "expire batch", batch.ID.String(), err)
			continue
		}
		s.publish(ctx, batch.GetDomainEvents()...)
		batch.ClearDomainEvents()

		a, err := alert.NewAlert(
			alert.AlertTypeBatchExpired,
			alert.EntityTypeBatch,
			batch.ID,
			fmt.Sprintf("Batch %s expired", batch.BatchNumber),
			fmt.Sprintf("Batch %s expired on %s with %s units remaining",
				batch.BatchNumber, batch.ExpirationDate.Format(time.DateOnly), batch.CurrentQuantity.String()),
			alert.PriorityCritical,
		)
		if err == nil {
			a.ForProduct(batch.ProductID).
				WithData("batch_number", batch.BatchNumber).
				WithData("current_quantity", batch.CurrentQuantity.String())
		}
		s.tally(ctx, &result, a, err)
	}

	s.logResult(result)
	return result, nil
}

// RunAll runs every check. A failing check does not stop the others; their errors are combined.
func (s *AlertScanner) RunAll(ctx context.Context, daysAhead int) ([]ScanResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "alert", "scan")
	defer span.End()

	results := make([]ScanResult, 0, 3)
	var errs error

	expired, err := s.CheckExpiredBatches(ctx)
	results = append(results, expired)
	errs = multierr.Append(errs, err)

	expiring, err := s.CheckExpiry(ctx, daysAhead)
	results = append(results, expiring)
	errs = multierr.Append(errs, err)

	lowStock, err := s.CheckLowStock(ctx)
	results = append(results, lowStock)
	errs = multierr.Append(errs, err)

	created := 0
	for _, r := range results {
		created += r.Created
		telemetry.AddEvent(span, "check_completed",
			telemetry.SpanAttrCheck, r.Check,
			telemetry.SpanAttrAlertCount, r.Created,
		)
	}
	telemetry.SetAttributes(span, telemetry.SpanAttrAlertCount, created)
	telemetry.RecordError(span, errs)
	return results, errs
}

// tally stores a freshly built alert unless an active one exists for the same target
func (s *AlertScanner) tally(ctx context.Context, result *ScanResult, a *alert.Alert, buildErr error) {
	if buildErr != nil {
		s.skipRecord(result, "build alert", "", buildErr)
		return
	}

	exists, err := s.alertRepo.ExistsActive(ctx, a.Type, a.EntityID)
	if err != nil {
		s.skipRecord(result, "check existing alert", a.EntityID.String(), err)
		return
	}
	if exists {
		result.Skipped++
		return
	}

	if err := s.alertRepo.Create(ctx, a); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			result.Skipped++
			return
		}
		s.skipRecord(result, "create alert", a.EntityID.String(), err)
		return
	}

	result.Created++
	if s.metrics != nil {
		s.metrics.RecordAlertRaised(ctx, string(a.Type), string(a.Priority))
	}
	s.publish(ctx, a.GetDomainEvents()...)
	a.ClearDomainEvents()
}

func (s *AlertScanner) skipRecord(result *ScanResult, op, entityID string, err error) {
	result.Failed++
	s.logger.Warn("Alert scan skipped a record",
		zap.String("check", result.Check),
		zap.String("operation", op),
		zap.String("entity_id", entityID),
		zap.Error(err),
	)
}

func (s *AlertScanner) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish alert events", zap.Error(err))
	}
}

func (s *AlertScanner) logResult(result ScanResult) {
	s.logger.Info("Alert check finished",
		zap.String("check", result.Check),
		zap.Int("scanned", result.Scanned),
		zap.Int("created", result.Created),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
}
