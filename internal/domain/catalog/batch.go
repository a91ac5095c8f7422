package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle status of a batch
type BatchStatus string

const (
	BatchStatusReceived   BatchStatus = "received"
	BatchStatusInStock    BatchStatus = strategy.BatchStatusInStock
	BatchStatusDispatched BatchStatus = "dispatched"
	BatchStatusExpired    BatchStatus = "expired"
	BatchStatusRecalled   BatchStatus = "recalled"
)

// IsValid returns true if the status is a known batch status
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusReceived, BatchStatusInStock, BatchStatusDispatched, BatchStatusExpired, BatchStatusRecalled:
		return true
	}
	return false
}

// CanTransitionTo reports whether received -> in_stock -> {dispatched, expired, recalled} allows the move
func (s BatchStatus) CanTransitionTo(target BatchStatus) bool {
	switch s {
	case BatchStatusReceived:
		return target == BatchStatusInStock
	case BatchStatusInStock:
		return target == BatchStatusDispatched || target == BatchStatusExpired || target == BatchStatusRecalled
	}
	return false
}

// Batch is a produced lot of a product and the unit of traceability for every order line
type Batch struct {
	shared.BaseAggregateRoot
	ProductID             uuid.UUID
	BatchNumber           string
	ProductionDate        time.Time
	ExpirationDate        time.Time
	InitialQuantity       decimal.Decimal
	CurrentQuantity       decimal.Decimal
	Status                BatchStatus
	ManufacturingLocation string
}

// NewBatch creates a received batch. A zero expirationDate defaults to production date plus shelf life.
func NewBatch(
	product *Product,
	batchNumber string,
	productionDate, expirationDate time.Time,
	quantity decimal.Decimal,
	manufacturingLocation string,
) (*Batch, error) {
	if product == nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Batch requires a product")
	}
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if productionDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Production date is required")
	}
	if expirationDate.IsZero() {
		expirationDate = product.DefaultExpiry(productionDate)
	}
	productionDate = shared.DateOf(productionDate)
	expirationDate = shared.DateOf(expirationDate)
	if expirationDate.Before(productionDate) {
		return nil, shared.NewDomainError("INVALID_DATE", "Expiration date cannot be before production date")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Batch quantity cannot be negative")
	}

	return &Batch{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		ProductID:             product.ID,
		BatchNumber:           batchNumber,
		ProductionDate:        productionDate,
		ExpirationDate:        expirationDate,
		InitialQuantity:       quantity,
		CurrentQuantity:       quantity,
		Status:                BatchStatusReceived,
		ManufacturingLocation: manufacturingLocation,
	}, nil
}

// DaysUntilExpiry returns whole days from today to the expiration date
func (b *Batch) DaysUntilExpiry(today time.Time) int {
	return shared.DaysBetween(today, b.ExpirationDate)
}

// IsExpiredAsOf returns true when the expiration date is strictly before today
func (b *Batch) IsExpiredAsOf(today time.Time) bool {
	return shared.DateOf(b.ExpirationDate).Before(shared.DateOf(today))
}

// IsAllocatable returns true if the allocator may draw from this batch
func (b *Batch) IsAllocatable() bool {
	return b.Status == BatchStatusInStock && b.CurrentQuantity.IsPositive()
}

// Stock moves a received batch into stock
func (b *Batch) Stock() error {
	return b.transitionTo(BatchStatusInStock)
}

// Dispatch marks a batch as fully shipped out
func (b *Batch) Dispatch() error {
	return b.transitionTo(BatchStatusDispatched)
}

// Recall pulls the batch from sale
func (b *Batch) Recall() error {
	return b.transitionTo(BatchStatusRecalled)
}

// Expire marks the batch expired and records a BatchExpired event
func (b *Batch) Expire() error {
	if err := b.transitionTo(BatchStatusExpired); err != nil {
		return err
	}
	b.AddDomainEvent(NewBatchExpiredEvent(b))
	return nil
}

// Deduct removes quantity from the batch
func (b *Batch) Deduct(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if b.Status != BatchStatusInStock {
		return shared.NewDomainError("BATCH_NOT_AVAILABLE", fmt.Sprintf("Batch %s is %s", b.BatchNumber, b.Status))
	}
	if quantity.GreaterThan(b.CurrentQuantity) {
		return shared.ErrInsufficientStock
	}

	b.CurrentQuantity = b.CurrentQuantity.Sub(quantity)
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}

// ToStrategyBatch converts the batch to the selection read model with the given drawable quantity
func (b *Batch) ToStrategyBatch(available decimal.Decimal) strategy.Batch {
	return strategy.Batch{
		ID:             b.ID,
		ProductID:      b.ProductID,
		BatchNumber:    b.BatchNumber,
		AvailableQty:   decimal.Min(available, b.CurrentQuantity),
		ProductionDate: b.ProductionDate,
		ExpiryDate:     b.ExpirationDate,
		Status:         string(b.Status),
	}
}

func (b *Batch) transitionTo(target BatchStatus) error {
	if !b.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Batch %s cannot move from %s to %s", b.BatchNumber, b.Status, target))
	}
	b.Status = target
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
	return nil
}
