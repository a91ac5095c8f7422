package batch

import (
	"context"
	"testing"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(today time.Time, offset int) time.Time {
	return today.AddDate(0, 0, offset)
}

func newTestBatch(productID uuid.UUID, number string, available int64, produced, expires time.Time) strategy.Batch {
	return strategy.Batch{
		ID:             uuid.New(),
		ProductID:      productID,
		BatchNumber:    number,
		AvailableQty:   decimal.NewFromInt(available),
		ProductionDate: produced,
		ExpiryDate:     expires,
		Status:         strategy.BatchStatusInStock,
	}
}

func TestFEFOBatchStrategy_SelectBatches(t *testing.T) {
	s := NewFEFOBatchStrategy()
	ctx := context.Background()
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()

	batchA := newTestBatch(productID, "A", 50, day(today, -7), day(today, 3))
	batchB := newTestBatch(productID, "B", 50, day(today, -10), day(today, 20))

	t.Run("draws earliest expiry first and spans into the next batch", func(t *testing.T) {
		result, err := s.SelectBatches(ctx, strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(70),
			Today:     today,
		}, []strategy.Batch{batchB, batchA})
		require.NoError(t, err)

		require.Len(t, result.Selections, 2)
		assert.Equal(t, batchA.ID, result.Selections[0].BatchID)
		assert.True(t, result.Selections[0].Quantity.Equal(decimal.NewFromInt(50)))
		assert.Equal(t, batchB.ID, result.Selections[1].BatchID)
		assert.True(t, result.Selections[1].Quantity.Equal(decimal.NewFromInt(20)))
		assert.True(t, result.ShortfallQty.IsZero())
		assert.False(t, result.HasShortfall())
	})

	t.Run("reports shortfall with the partial plan", func(t *testing.T) {
		result, err := s.SelectBatches(ctx, strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(200),
			Today:     today,
		}, []strategy.Batch{batchA, batchB})
		require.NoError(t, err)

		assert.True(t, result.TotalQty.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.ShortfallQty.Equal(decimal.NewFromInt(100)))
		assert.True(t, result.HasShortfall())
	})

	t.Run("excludes batches expiring today or earlier", func(t *testing.T) {
		expiringToday := newTestBatch(productID, "TODAY", 40, day(today, -30), today)
		expired := newTestBatch(productID, "OLD", 40, day(today, -30), day(today, -1))

		result, err := s.SelectBatches(ctx, strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(10),
			Today:     today,
		}, []strategy.Batch{expired, expiringToday, batchB})
		require.NoError(t, err)

		require.Len(t, result.Selections, 1)
		assert.Equal(t, batchB.ID, result.Selections[0].BatchID)
	})

	t.Run("breaks expiry ties by batch id", func(t *testing.T) {
		first := newTestBatch(productID, "X1", 5, day(today, -2), day(today, 5))
		second := newTestBatch(productID, "X2", 5, day(today, -9), day(today, 5))
		if second.ID.String() < first.ID.String() {
			first, second = second, first
		}

		result, err := s.SelectBatches(ctx, strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(7),
			Today:     today,
		}, []strategy.Batch{second, first})
		require.NoError(t, err)

		require.Len(t, result.Selections, 2)
		assert.Equal(t, first.ID, result.Selections[0].BatchID)
		assert.Equal(t, second.ID, result.Selections[1].BatchID)
	})

	t.Run("skips other products, empty batches and non in-stock batches", func(t *testing.T) {
		other := newTestBatch(uuid.New(), "OTHER", 100, day(today, -1), day(today, 2))
		empty := newTestBatch(productID, "EMPTY", 0, day(today, -1), day(today, 2))
		recalled := newTestBatch(productID, "RECALLED", 100, day(today, -1), day(today, 2))
		recalled.Status = "recalled"

		result, err := s.SelectBatches(ctx, strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(10),
			Today:     today,
		}, []strategy.Batch{other, empty, recalled, batchA})
		require.NoError(t, err)

		require.Len(t, result.Selections, 1)
		assert.Equal(t, batchA.ID, result.Selections[0].BatchID)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := s.SelectBatches(ctx, strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.Zero,
			Today:     today,
		}, []strategy.Batch{batchA})
		require.Error(t, err)
		assert.True(t, shared.IsValidationError(err))
	})

	t.Run("strategy metadata", func(t *testing.T) {
		assert.Equal(t, "fefo", s.Name())
		assert.Equal(t, strategy.StrategyTypeBatch, s.Type())
		assert.True(t, s.ConsidersExpiry())
	})
}

func TestFEFOBatchStrategy_Conservation(t *testing.T) {
	s := NewFEFOBatchStrategy()
	today := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	productID := uuid.New()
	batches := []strategy.Batch{
		newTestBatch(productID, "1", 13, day(today, -3), day(today, 4)),
		newTestBatch(productID, "2", 7, day(today, -3), day(today, 9)),
		newTestBatch(productID, "3", 21, day(today, -3), day(today, 2)),
	}

	for _, requested := range []int64{1, 7, 20, 41, 42, 500} {
		result, err := s.SelectBatches(context.Background(), strategy.BatchSelectionContext{
			ProductID: productID,
			Quantity:  decimal.NewFromInt(requested),
			Today:     today,
		}, batches)
		require.NoError(t, err)

		taken := decimal.Zero
		for _, sel := range result.Selections {
			assert.True(t, sel.Quantity.IsPositive())
			taken = taken.Add(sel.Quantity)
		}
		assert.True(t, taken.Equal(result.TotalQty))
		assert.True(t, taken.Add(result.ShortfallQty).Equal(decimal.NewFromInt(requested)),
			"conservation violated for %d", requested)
	}
}
