package event

import (
	"github.com/freshchain/scms/internal/domain/alert"
	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/trade"
)

// RegisterEngineEvents registers every event the engine publishes
func RegisterEngineEvents(serializer *EventSerializer) {
	serializer.Register(alert.EventTypeAlertRaised, &alert.AlertRaisedEvent{})
	serializer.Register(catalog.EventTypeBatchExpired, &catalog.BatchExpiredEvent{})
	serializer.Register(trade.EventTypeOrderCommitted, &trade.OrderCommittedEvent{})
}

// NewEngineSerializer returns a serializer with the engine events registered
func NewEngineSerializer() *EventSerializer {
	s := NewEventSerializer()
	RegisterEngineEvents(s)
	return s
}
