package batch

import (
	"context"
	"sort"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
)

// FEFOBatchStrategy implements First Expired First Out batch selection.
// Batches are selected by expiration date (earliest first) and a batch whose
// expiration date is today or earlier is never selected. This is the default
// for perishable goods.
type FEFOBatchStrategy struct {
	strategy.BaseStrategy
}

// NewFEFOBatchStrategy creates a new FEFO batch strategy
func NewFEFOBatchStrategy() *FEFOBatchStrategy {
	return &FEFOBatchStrategy{
		BaseStrategy: strategy.NewBaseStrategy(
			"fefo",
			strategy.StrategyTypeBatch,
			"First Expired First Out - selects batches by expiry date (earliest expiry first)",
		),
	}
}

// SelectBatches selects batches in FEFO order by expiry date
func (s *FEFOBatchStrategy) SelectBatches(
	ctx context.Context,
	selCtx strategy.BatchSelectionContext,
	batches []strategy.Batch,
) (strategy.BatchSelectionResult, error) {
	if err := validateSelection(selCtx); err != nil {
		return strategy.BatchSelectionResult{}, err
	}

	filtered := filterAvailableBatches(batches, selCtx)
	filtered = filterNonExpiredBatches(filtered, selCtx.Today)

	sort.SliceStable(filtered, func(i, j int) bool {
		iExpiry := filtered[i].ExpiryDate
		jExpiry := filtered[j].ExpiryDate

		// Batches without an expiry date go last, oldest production first
		switch {
		case iExpiry.IsZero() && jExpiry.IsZero():
			if !filtered[i].ProductionDate.Equal(filtered[j].ProductionDate) {
				return filtered[i].ProductionDate.Before(filtered[j].ProductionDate)
			}
		case iExpiry.IsZero():
			return false
		case jExpiry.IsZero():
			return true
		case !iExpiry.Equal(jExpiry):
			return iExpiry.Before(jExpiry)
		}
		return filtered[i].ID.String() < filtered[j].ID.String()
	})

	return selectFromBatches(filtered, selCtx.Quantity), nil
}

// ConsidersExpiry returns true as FEFO considers expiry dates
func (s *FEFOBatchStrategy) ConsidersExpiry() bool {
	return true
}

// filterNonExpiredBatches keeps batches whose expiration date is strictly after today
func filterNonExpiredBatches(batches []strategy.Batch, today time.Time) []strategy.Batch {
	if today.IsZero() {
		today = time.Now()
	}
	today = shared.DateOf(today)

	filtered := make([]strategy.Batch, 0, len(batches))
	for _, b := range batches {
		if b.ExpiryDate.IsZero() || shared.DateOf(b.ExpiryDate).After(today) {
			filtered = append(filtered, b)
		}
	}
	return filtered
}
