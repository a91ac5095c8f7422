package batch

import (
	"context"
	"sort"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/shopspring/decimal"
)

// FIFOBatchStrategy implements First In First Out batch selection.
// Batches are drawn in ascending production date order.
type FIFOBatchStrategy struct {
	strategy.BaseStrategy
}

// NewFIFOBatchStrategy creates a new FIFO batch strategy
func NewFIFOBatchStrategy() *FIFOBatchStrategy {
	return &FIFOBatchStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fifo",
			strategy.StrategyTypeBatch,
			"First In First Out - selects batches by production date (oldest first)",
		),
	}
}

// SelectBatches selects batches in FIFO order by production date
func (s *FIFOBatchStrategy) SelectBatches(
	ctx context.Context,
	selCtx strategy.BatchSelectionContext,
	batches []strategy.Batch,
) (strategy.BatchSelectionResult, error) {
	if err := validateSelection(selCtx); err != nil {
		return strategy.BatchSelectionResult{}, err
	}

	filtered := filterAvailableBatches(batches, selCtx)

	sort.SliceStable(filtered, func(i, j int) bool {
		iDate := filtered[i].ProductionDate
		jDate := filtered[j].ProductionDate
		if !iDate.Equal(jDate) {
			return iDate.Before(jDate)
		}
		return filtered[i].ID.String() < filtered[j].ID.String()
	})

	return selectFromBatches(filtered, selCtx.Quantity), nil
}

// ConsidersExpiry returns false as FIFO doesn't consider expiry dates
func (s *FIFOBatchStrategy) ConsidersExpiry() bool {
	return false
}

func validateSelection(selCtx strategy.BatchSelectionContext) error {
	if !selCtx.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	return nil
}

// filterAvailableBatches keeps in-stock batches of the requested product that still have quantity
func filterAvailableBatches(batches []strategy.Batch, selCtx strategy.BatchSelectionContext) []strategy.Batch {
	filtered := make([]strategy.Batch, 0, len(batches))
	for _, b := range batches {
		if b.ProductID != selCtx.ProductID {
			continue
		}
		if b.Status != strategy.BatchStatusInStock || !b.AvailableQty.IsPositive() {
			continue
		}
		filtered = append(filtered, b)
	}
	return filtered
}

// selectFromBatches walks the sorted batches once, taking min(remaining, available) from each
func selectFromBatches(batches []strategy.Batch, quantity decimal.Decimal) strategy.BatchSelectionResult {
	remainingQty := quantity
	selections := make([]strategy.BatchSelection, 0)
	totalQty := decimal.Zero

	for _, b := range batches {
		if !remainingQty.IsPositive() {
			break
		}

		selectedQty := decimal.Min(remainingQty, b.AvailableQty)
		selections = append(selections, strategy.BatchSelection{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			Quantity:    selectedQty,
			ExpiryDate:  b.ExpiryDate,
		})

		remainingQty = remainingQty.Sub(selectedQty)
		totalQty = totalQty.Add(selectedQty)
	}

	return strategy.BatchSelectionResult{
		Selections:   selections,
		TotalQty:     totalQty,
		ShortfallQty: remainingQty,
	}
}
