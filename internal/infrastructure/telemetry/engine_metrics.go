package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when no meter is supplied.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// StockMetricsProvider supplies point-in-time stock and alert gauges.
type StockMetricsProvider interface {
	LowStockRecordCount(ctx context.Context) (int64, error)
	ActiveAlertCount(ctx context.Context) (int64, error)
}

// EngineMetrics records allocation, order and alert outcomes.
type EngineMetrics struct {
	logger *zap.Logger

	ordersCommitted *Counter
	ordersAborted   *Counter
	orderValue      *Histogram
	orderLines      *Histogram
	shortfalls      *Counter
	conflictRetries *Counter
	alertsRaised    *Counter

	registration metric.Registration
}

// NewEngineMetrics creates the engine instruments on meter. With a non-nil provider
// the low-stock and active-alert gauges are observed on every collection.
func NewEngineMetrics(meter metric.Meter, provider StockMetricsProvider, logger *zap.Logger) (*EngineMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &EngineMetrics{logger: logger}
	var err error

	if m.ordersCommitted, err = NewCounter(meter, "scms_orders_committed_total", "Orders committed", "{order}"); err != nil {
		return nil, err
	}
	if m.ordersAborted, err = NewCounter(meter, "scms_orders_aborted_total", "Orders aborted before commit", "{order}"); err != nil {
		return nil, err
	}
	if m.orderValue, err = NewHistogram(meter, HistogramOpts{
		Name:        "scms_order_value",
		Description: "Total amount of committed orders",
		Unit:        "{currency}",
		Boundaries:  OrderValueBuckets,
	}); err != nil {
		return nil, err
	}
	if m.orderLines, err = NewHistogram(meter, HistogramOpts{
		Name:        "scms_order_lines",
		Description: "Lines per committed order",
		Unit:        "{line}",
		Boundaries:  []float64{1, 2, 5, 10, 20, 50},
	}); err != nil {
		return nil, err
	}
	if m.shortfalls, err = NewCounter(meter, "scms_allocation_shortfalls_total", "Allocation requests that could not be fully covered", "{request}"); err != nil {
		return nil, err
	}
	if m.conflictRetries, err = NewCounter(meter, "scms_concurrency_retries_total", "Transactions retried after a concurrency conflict", "{retry}"); err != nil {
		return nil, err
	}
	if m.alertsRaised, err = NewCounter(meter, "scms_alerts_raised_total", "Alerts created by the scanner", "{alert}"); err != nil {
		return nil, err
	}

	if provider != nil {
		if err := m.observeStock(meter, provider); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func (m *EngineMetrics) observeStock(meter metric.Meter, provider StockMetricsProvider) error {
	lowStock, err := meter.Int64ObservableGauge("scms_inventory_low_stock_records",
		metric.WithDescription("Inventory records at or below their reorder point"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return err
	}
	activeAlerts, err := meter.Int64ObservableGauge("scms_alerts_active",
		metric.WithDescription("Alerts currently active"),
		metric.WithUnit("{alert}"),
	)
	if err != nil {
		return err
	}

	m.registration, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		if n, err := provider.LowStockRecordCount(ctx); err != nil {
			m.logger.Warn("Failed to collect low stock count", zap.Error(err))
		} else {
			o.ObserveInt64(lowStock, n)
		}
		if n, err := provider.ActiveAlertCount(ctx); err != nil {
			m.logger.Warn("Failed to collect active alert count", zap.Error(err))
		} else {
			o.ObserveInt64(activeAlerts, n)
		}
		return nil
	}, lowStock, activeAlerts)
	return err
}

// RecordOrderCommitted records a committed order.
func (m *EngineMetrics) RecordOrderCommitted(ctx context.Context, method string, lines int, total decimal.Decimal) {
	attr := AttrMethod.String(method)
	m.ordersCommitted.Inc(ctx, attr)
	m.orderLines.Record(ctx, float64(lines), attr)
	m.orderValue.Record(ctx, total.InexactFloat64(), attr)
}

// RecordOrderAborted records an order that was rolled back.
func (m *EngineMetrics) RecordOrderAborted(ctx context.Context, reason string) {
	m.ordersAborted.Inc(ctx, AttrReason.String(reason))
}

// RecordShortfall records an allocation that could not be covered.
func (m *EngineMetrics) RecordShortfall(ctx context.Context, method string) {
	m.shortfalls.Inc(ctx, AttrMethod.String(method))
}

// RecordConflictRetry records a retried transaction.
func (m *EngineMetrics) RecordConflictRetry(ctx context.Context, operation string) {
	m.conflictRetries.Inc(ctx, AttrOperation.String(operation))
}

// RecordAlertRaised records a created alert.
func (m *EngineMetrics) RecordAlertRaised(ctx context.Context, alertType, priority string) {
	m.alertsRaised.Inc(ctx, AttrAlertType.String(alertType), AttrPriority.String(priority))
}

// Stop unregisters the gauge callback.
func (m *EngineMetrics) Stop() {
	if m.registration != nil {
		if err := m.registration.Unregister(); err != nil {
			m.logger.Warn("Failed to unregister metrics callback", zap.Error(err))
		}
	}
}
