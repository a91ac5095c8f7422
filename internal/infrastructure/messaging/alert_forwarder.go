package messaging

import (
	"context"
	"fmt"

	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/infrastructure/event"
	"go.uber.org/zap"
)

// AlertForwarder hands raised alerts to the external notifier.
// With no publisher configured it only logs them.
type AlertForwarder struct {
	publisher  Publisher
	serializer *event.EventSerializer
	routingKey string
	logger     *zap.Logger
}

// NewAlertForwarder creates a forwarder. publisher may be nil.
func NewAlertForwarder(publisher Publisher, serializer *event.EventSerializer, routingKey string, logger *zap.Logger) *AlertForwarder {
	if serializer == nil {
		serializer = event.NewEngineSerializer()
	}
	if routingKey == "" {
		routingKey = alert.EventTypeAlertRaised
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AlertForwarder{
		publisher:  publisher,
		serializer: serializer,
		routingKey: routingKey,
		logger:     logger.Named("alert_forwarder"),
	}
}

// EventTypes returns the alert.raised event type
func (f *AlertForwarder) EventTypes() []string {
	return []string{alert.EventTypeAlertRaised}
}

// Handle forwards one alert.raised event
func (f *AlertForwarder) Handle(ctx context.Context, evt shared.DomainEvent) error {
	raised, ok := evt.(*alert.AlertRaisedEvent)
	if !ok {
		return fmt.Errorf("unexpected event %T for %s", evt, evt.EventType())
	}

	fields := []zap.Field{
		zap.String("alert_id", raised.AlertID.String()),
		zap.String("alert_type", string(raised.AlertType)),
		zap.String("entity_id", raised.EntityID.String()),
		zap.String("priority", string(raised.Priority)),
	}

	if f.publisher == nil {
		f.logger.Info(raised.Title, fields...)
		return nil
	}

	body, err := f.serializer.Serialize(raised)
	if err != nil {
		return err
	}
	if err := f.publisher.Publish(ctx, Message{
		ID:         raised.EventID().String(),
		RoutingKey: f.routingKey,
		Body:       body,
		Timestamp:  raised.OccurredAt(),
	}); err != nil {
		return err
	}

	f.logger.Debug("Alert forwarded", fields...)
	return nil
}

var _ shared.EventHandler = (*AlertForwarder)(nil)
