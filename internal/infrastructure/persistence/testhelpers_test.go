package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database migrated from the GORM models.
// A single connection keeps every statement on the same in-memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), GormConfig(nil))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

var testDay = time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)

func day(offset int) time.Time {
	return testDay.AddDate(0, 0, offset)
}

func seedProduct(t *testing.T, db *gorm.DB, sku, name string) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, name, decimal.NewFromInt(100), "kg", 10)
	require.NoError(t, err)
	require.NoError(t, NewGormProductRepository(db).Save(context.Background(), product))
	return product
}

// seedBatch stores an in-stock batch expiring expiresIn days after testDay.
func seedBatch(t *testing.T, db *gorm.DB, product *catalog.Product, number string, expiresIn int, qty int64) *catalog.Batch {
	t.Helper()
	batch, err := catalog.NewBatch(product, number, day(-5), day(expiresIn), decimal.NewFromInt(qty), "Plant 1")
	require.NoError(t, err)
	require.NoError(t, batch.Stock())
	require.NoError(t, NewGormBatchRepository(db).Save(context.Background(), batch))
	return batch
}

func seedRecord(t *testing.T, db *gorm.DB, batch *catalog.Batch, location string, qty int64) *inventory.InventoryRecord {
	t.Helper()
	record, err := inventory.NewInventoryRecord(batch.ID, batch.ProductID, location, decimal.NewFromInt(qty))
	require.NoError(t, err)
	require.NoError(t, NewGormInventoryRecordRepository(db).Save(context.Background(), record))
	return record
}

func requireDecimal(t *testing.T, expected int64, actual decimal.Decimal) {
	t.Helper()
	require.Truef(t, decimal.NewFromInt(expected).Equal(actual), "expected %d, got %s", expected, actual)
}
