package inventory

import (
	"fmt"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationLine is the quantity drawn from one batch at one location
type AllocationLine struct {
	BatchID           uuid.UUID       `json:"batch_id"`
	BatchNumber       string          `json:"batch_number"`
	InventoryRecordID uuid.UUID       `json:"inventory_record_id"`
	Location          string          `json:"location"`
	Quantity          decimal.Decimal `json:"quantity"`
	ExpirationDate    time.Time       `json:"expiration_date"`
}

// AllocationPlan is the tentative result of walking eligible batches.
// Nothing in a plan has been written; Allocated + Shortfall == Requested.
type AllocationPlan struct {
	ProductID uuid.UUID        `json:"product_id"`
	Method    string           `json:"method"`
	Location  string           `json:"location,omitempty"`
	Requested decimal.Decimal  `json:"requested"`
	Allocated decimal.Decimal  `json:"allocated"`
	Shortfall decimal.Decimal  `json:"shortfall"`
	Lines     []AllocationLine `json:"lines"`
}

// HasShortfall returns true if the plan does not cover the request
func (p *AllocationPlan) HasShortfall() bool {
	return p.Shortfall.IsPositive()
}

// BatchTotals sums line quantities per batch
func (p *AllocationPlan) BatchTotals() map[uuid.UUID]decimal.Decimal {
	totals := make(map[uuid.UUID]decimal.Decimal, len(p.Lines))
	for _, line := range p.Lines {
		totals[line.BatchID] = totals[line.BatchID].Add(line.Quantity)
	}
	return totals
}

// BatchIDs returns the distinct batch IDs in line order
func (p *AllocationPlan) BatchIDs() []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(p.Lines))
	ids := make([]uuid.UUID, 0, len(p.Lines))
	for _, line := range p.Lines {
		if !seen[line.BatchID] {
			seen[line.BatchID] = true
			ids = append(ids, line.BatchID)
		}
	}
	return ids
}

// InsufficientStockError reports an allocation shortfall for a product
type InsufficientStockError struct {
	ProductID uuid.UUID
	Requested decimal.Decimal
	Shortfall decimal.Decimal
}

// NewInsufficientStockError creates an InsufficientStockError from a plan
func NewInsufficientStockError(plan *AllocationPlan) *InsufficientStockError {
	return &InsufficientStockError{
		ProductID: plan.ProductID,
		Requested: plan.Requested,
		Shortfall: plan.Shortfall,
	}
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %s, short by %s",
		e.ProductID, e.Requested.String(), e.Shortfall.String())
}

// Unwrap lets errors.Is match shared.ErrInsufficientStock
func (e *InsufficientStockError) Unwrap() error {
	return shared.ErrInsufficientStock
}
