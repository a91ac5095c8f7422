package strategy

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatusInStock is the only batch status a selection strategy may draw from
const BatchStatusInStock = "in_stock"

// Batch is the read model of a production batch offered to a selection strategy.
// AvailableQty is the quantity that can be drawn right now, already capped by the
// inventory records that are in scope for the request.
type Batch struct {
	ID             uuid.UUID
	ProductID      uuid.UUID
	BatchNumber    string
	AvailableQty   decimal.Decimal
	ProductionDate time.Time
	ExpiryDate     time.Time
	Status         string
}

// BatchSelection is the quantity taken from one batch
type BatchSelection struct {
	BatchID     uuid.UUID
	BatchNumber string
	Quantity    decimal.Decimal
	ExpiryDate  time.Time
}

// BatchSelectionContext provides context for batch selection
type BatchSelectionContext struct {
	ProductID uuid.UUID
	Quantity  decimal.Decimal
	// Today is the reference date for expiry checks. Zero means time.Now().
	Today time.Time
}

// BatchSelectionResult contains the result of batch selection.
// TotalQty + ShortfallQty always equals the requested quantity.
type BatchSelectionResult struct {
	Selections   []BatchSelection
	TotalQty     decimal.Decimal
	ShortfallQty decimal.Decimal
}

// HasShortfall returns true when the eligible batches could not cover the request
func (r BatchSelectionResult) HasShortfall() bool {
	return r.ShortfallQty.IsPositive()
}

// BatchManagementStrategy defines the interface for batch selection
type BatchManagementStrategy interface {
	Strategy
	// SelectBatches walks eligible batches in the strategy's order and takes quantity greedily
	SelectBatches(ctx context.Context, selCtx BatchSelectionContext, batches []Batch) (BatchSelectionResult, error)
	// ConsidersExpiry returns true if the strategy excludes expired batches and orders by expiry
	ConsidersExpiry() bool
}
