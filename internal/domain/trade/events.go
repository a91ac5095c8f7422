package trade

import (
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeOrder is the aggregate type of order events
const AggregateTypeOrder = "Order"

// EventTypeOrderCommitted is published after an order and its stock draws are persisted
const EventTypeOrderCommitted = "OrderCommitted"

// OrderCommittedEvent is published when an order commits
type OrderCommittedEvent struct {
	shared.BaseDomainEvent
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	RetailerID  uuid.UUID       `json:"retailer_id"`
	LineCount   int             `json:"line_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// NewOrderCommittedEvent creates a new OrderCommittedEvent
func NewOrderCommittedEvent(o *Order) *OrderCommittedEvent {
	return &OrderCommittedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCommitted, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		OrderNumber:     o.OrderNumber,
		RetailerID:      o.RetailerID,
		LineCount:       len(o.Lines),
		TotalAmount:     o.TotalAmount,
	}
}
