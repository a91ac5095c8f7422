package catalog

import (
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeBatch is the aggregate type of batch events
const AggregateTypeBatch = "Batch"

// EventTypeBatchExpired is published when a batch is marked expired
const EventTypeBatchExpired = "BatchExpired"

// BatchExpiredEvent is published when the expiry sweep retires a batch
type BatchExpiredEvent struct {
	shared.BaseDomainEvent
	BatchID         uuid.UUID       `json:"batch_id"`
	ProductID       uuid.UUID       `json:"product_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpirationDate  time.Time       `json:"expiration_date"`
	CurrentQuantity decimal.Decimal `json:"current_quantity"`
}

// NewBatchExpiredEvent creates a new BatchExpiredEvent
func NewBatchExpiredEvent(b *Batch) *BatchExpiredEvent {
	return &BatchExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchExpired, AggregateTypeBatch, b.ID),
		BatchID:         b.ID,
		ProductID:       b.ProductID,
		BatchNumber:     b.BatchNumber,
		ExpirationDate:  b.ExpirationDate,
		CurrentQuantity: b.CurrentQuantity,
	}
}
