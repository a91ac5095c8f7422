package inventory

import (
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRecord is the quantity of one batch held at one location.
// QuantityOnHand moves in lock-step with the batch's current quantity during allocation.
type InventoryRecord struct {
	shared.BaseAggregateRoot
	BatchID        uuid.UUID
	ProductID      uuid.UUID
	Location       string
	QuantityOnHand decimal.Decimal
	ReorderPoint   *decimal.Decimal // nil disables low-stock alerting for this record
}

// NewInventoryRecord creates a location record for a batch
func NewInventoryRecord(batchID, productID uuid.UUID, location string, quantity decimal.Decimal) (*InventoryRecord, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Location cannot be empty")
	}
	if quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity on hand cannot be negative")
	}

	return &InventoryRecord{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BatchID:           batchID,
		ProductID:         productID,
		Location:          location,
		QuantityOnHand:    quantity,
	}, nil
}

// SetReorderPoint sets or clears the reorder point
func (r *InventoryRecord) SetReorderPoint(point *decimal.Decimal) error {
	if point != nil && point.IsNegative() {
		return shared.NewDomainError("INVALID_REORDER_POINT", "Reorder point cannot be negative")
	}
	r.ReorderPoint = point
	r.UpdatedAt = time.Now()
	return nil
}

// Deduct removes quantity from the record
func (r *InventoryRecord) Deduct(quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Deduct quantity must be positive")
	}
	if quantity.GreaterThan(r.QuantityOnHand) {
		return shared.ErrInsufficientStock
	}
	r.QuantityOnHand = r.QuantityOnHand.Sub(quantity)
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// IsBelowReorderPoint returns true when a reorder point is set and on-hand is at or under it
func (r *InventoryRecord) IsBelowReorderPoint() bool {
	return r.ReorderPoint != nil && r.QuantityOnHand.LessThanOrEqual(*r.ReorderPoint)
}

// Deficit returns how far on-hand is below the reorder point, zero when not below
func (r *InventoryRecord) Deficit() decimal.Decimal {
	if !r.IsBelowReorderPoint() {
		return decimal.Zero
	}
	return r.ReorderPoint.Sub(r.QuantityOnHand)
}

// Summary aggregates on-hand stock for a product
type Summary struct {
	ProductID       uuid.UUID                  `json:"product_id"`
	TotalOnHand     decimal.Decimal            `json:"total_on_hand"`
	ByLocation      map[string]decimal.Decimal `json:"by_location"`
	RecordCount     int                        `json:"record_count"`
	LowStockRecords int                        `json:"low_stock_records"`
}

// Summarize builds a Summary from a product's records
func Summarize(productID uuid.UUID, records []InventoryRecord) Summary {
	s := Summary{
		ProductID:   productID,
		TotalOnHand: decimal.Zero,
		ByLocation:  make(map[string]decimal.Decimal),
		RecordCount: len(records),
	}
	for i := range records {
		rec := &records[i]
		s.TotalOnHand = s.TotalOnHand.Add(rec.QuantityOnHand)
		s.ByLocation[rec.Location] = s.ByLocation[rec.Location].Add(rec.QuantityOnHand)
		if rec.IsBelowReorderPoint() {
			s.LowStockRecords++
		}
	}
	return s
}
