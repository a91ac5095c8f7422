package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordRepository defines the interface for inventory record persistence
type RecordRepository interface {
	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*InventoryRecord, error)

	// FindByBatch finds all location records of a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID) ([]InventoryRecord, error)

	// FindByBatches finds the location records of several batches, optionally restricted to one location
	FindByBatches(ctx context.Context, batchIDs []uuid.UUID, location string) ([]InventoryRecord, error)

	// FindByBatchAndLocation finds the record of a batch at a location
	FindByBatchAndLocation(ctx context.Context, batchID uuid.UUID, location string) (*InventoryRecord, error)

	// FindByProduct finds all records of a product
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]InventoryRecord, error)

	// FindBelowReorderPoint finds records with a reorder point and on-hand at or below it
	FindBelowReorderPoint(ctx context.Context) ([]InventoryRecord, error)

	// LockByBatches loads records of the given batches with a row lock held until the transaction ends
	LockByBatches(ctx context.Context, batchIDs []uuid.UUID) ([]InventoryRecord, error)

	// Save creates or updates a record
	Save(ctx context.Context, record *InventoryRecord) error

	// DecrementQuantity subtracts quantity only if enough remains; returns ErrConcurrencyConflict otherwise
	DecrementQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error
}
