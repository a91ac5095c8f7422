package catalog

import (
	"context"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindBySKU finds a product by its SKU
	FindBySKU(ctx context.Context, sku string) (*Product, error)

	// FindAll returns a page of products and the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, int64, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// BatchRepository defines the interface for batch persistence
type BatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)

	// FindByProduct finds batches of a product, optionally restricted to statuses
	FindByProduct(ctx context.Context, productID uuid.UUID, statuses ...BatchStatus) ([]Batch, error)

	// FindAllocatable finds in-stock batches of a product with remaining quantity
	FindAllocatable(ctx context.Context, productID uuid.UUID) ([]Batch, error)

	// FindExpiring finds in-stock batches with quantity whose expiration date is within [from, to], ordered by expiration
	FindExpiring(ctx context.Context, from, to time.Time) ([]Batch, error)

	// FindExpired finds in-stock batches with quantity whose expiration date is before the given date
	FindExpired(ctx context.Context, before time.Time) ([]Batch, error)

	// LockByIDs loads batches with a row lock held until the surrounding transaction ends
	LockByIDs(ctx context.Context, ids []uuid.UUID) ([]Batch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *Batch) error

	// DecrementQuantity subtracts quantity only if enough remains; returns ErrConcurrencyConflict otherwise
	DecrementQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error

	// MarkExpired moves an in-stock batch to expired without touching its quantities;
	// returns ErrConcurrencyConflict if the batch is no longer in stock
	MarkExpired(ctx context.Context, id uuid.UUID) error
}
