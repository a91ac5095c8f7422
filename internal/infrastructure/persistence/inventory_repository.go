package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormInventoryRecordRepository implements RecordRepository using GORM
type GormInventoryRecordRepository struct {
	db *gorm.DB
}

// NewGormInventoryRecordRepository creates a new GormInventoryRecordRepository
func NewGormInventoryRecordRepository(db *gorm.DB) *GormInventoryRecordRepository {
	return &GormInventoryRecordRepository{db: db}
}

// FindByID finds an inventory record by its ID
func (r *GormInventoryRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.InventoryRecord, error) {
	var model models.InventoryRecordModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByBatch finds all location records of a batch
func (r *GormInventoryRecordRepository) FindByBatch(ctx context.Context, batchID uuid.UUID) ([]inventory.InventoryRecord, error) {
	return r.find(r.db.WithContext(ctx).
		Where("batch_id = ?", batchID).
		Order("location ASC"))
}

// FindByBatches finds the records of several batches, optionally at a single location
func (r *GormInventoryRecordRepository) FindByBatches(ctx context.Context, batchIDs []uuid.UUID, location string) ([]inventory.InventoryRecord, error) {
	if len(batchIDs) == 0 {
		return []inventory.InventoryRecord{}, nil
	}
	query := r.db.WithContext(ctx).Where("batch_id IN ?", batchIDs)
	if location != "" {
		query = query.Where("location = ?", location)
	}
	return r.find(query.Order("batch_id ASC, location ASC, id ASC"))
}

// FindByBatchAndLocation finds the record of a batch at a location
func (r *GormInventoryRecordRepository) FindByBatchAndLocation(ctx context.Context, batchID uuid.UUID, location string) (*inventory.InventoryRecord, error) {
	var model models.InventoryRecordModel
	if err := r.db.WithContext(ctx).
		Where("batch_id = ? AND location = ?", batchID, location).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct finds all records of a product
func (r *GormInventoryRecordRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.InventoryRecord, error) {
	return r.find(r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("location ASC, batch_id ASC"))
}

// FindBelowReorderPoint finds records that have a reorder point and are at or below it
func (r *GormInventoryRecordRepository) FindBelowReorderPoint(ctx context.Context) ([]inventory.InventoryRecord, error) {
	return r.find(r.db.WithContext(ctx).
		Where("reorder_point IS NOT NULL AND quantity_on_hand <= reorder_point").
		Order("location ASC, product_id ASC"))
}

// LockByBatches loads the records of the given batches with SELECT ... FOR UPDATE,
// in batch ID order. Must be called inside a transaction.
func (r *GormInventoryRecordRepository) LockByBatches(ctx context.Context, batchIDs []uuid.UUID) ([]inventory.InventoryRecord, error) {
	if len(batchIDs) == 0 {
		return []inventory.InventoryRecord{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("batch_id IN ?", batchIDs).
		Order("batch_id ASC, location ASC, id ASC"))
}

// Save creates or updates a record
func (r *GormInventoryRecordRepository) Save(ctx context.Context, record *inventory.InventoryRecord) error {
	return r.db.WithContext(ctx).Save(models.InventoryRecordModelFromDomain(record)).Error
}

// DecrementQuantity subtracts quantity only if enough is on hand.
// Zero affected rows means another writer got there first.
func (r *GormInventoryRecordRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.InventoryRecordModel{}).
		Where("id = ? AND quantity_on_hand >= ?", id, quantity).
		Updates(map[string]any{
			"quantity_on_hand": gorm.Expr("quantity_on_hand - ?", quantity),
			"version":          gorm.Expr("version + 1"),
			"updated_at":       time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormInventoryRecordRepository) find(query *gorm.DB) ([]inventory.InventoryRecord, error) {
	var recordModels []models.InventoryRecordModel
	if err := query.Find(&recordModels).Error; err != nil {
		return nil, err
	}
	records := make([]inventory.InventoryRecord, len(recordModels))
	for i := range recordModels {
		records[i] = *recordModels[i].ToDomain()
	}
	return records, nil
}

// Ensure GormInventoryRecordRepository implements RecordRepository
var _ inventory.RecordRepository = (*GormInventoryRecordRepository)(nil)
