package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Batch, error) {
	var model models.BatchModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByProduct finds batches of a product, optionally restricted to statuses, ordered by expiration
func (r *GormBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID, statuses ...catalog.BatchStatus) ([]catalog.Batch, error) {
	query := r.db.WithContext(ctx).Where("product_id = ?", productID)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	return r.find(query.Order("expiration_date ASC, batch_number ASC"))
}

// FindAllocatable finds in-stock batches of a product with remaining quantity
func (r *GormBatchRepository) FindAllocatable(ctx context.Context, productID uuid.UUID) ([]catalog.Batch, error) {
	return r.find(r.db.WithContext(ctx).
		Where("product_id = ? AND status = ? AND current_quantity > 0", productID, catalog.BatchStatusInStock).
		Order("id ASC"))
}

// FindExpiring finds in-stock batches with quantity expiring within [from, to]
func (r *GormBatchRepository) FindExpiring(ctx context.Context, from, to time.Time) ([]catalog.Batch, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND current_quantity > 0", catalog.BatchStatusInStock).
		Where("expiration_date >= ? AND expiration_date <= ?", shared.DateOf(from), shared.DateOf(to)).
		Order("expiration_date ASC, batch_number ASC"))
}

// FindExpired finds in-stock batches with quantity that expired before the given date
func (r *GormBatchRepository) FindExpired(ctx context.Context, before time.Time) ([]catalog.Batch, error) {
	return r.find(r.db.WithContext(ctx).
		Where("status = ? AND current_quantity > 0", catalog.BatchStatusInStock).
		Where("expiration_date < ?", shared.DateOf(before)).
		Order("expiration_date ASC"))
}

// LockByIDs loads batches with SELECT ... FOR UPDATE in ID order.
// Must be called inside a transaction.
func (r *GormBatchRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Batch, error) {
	if len(ids) == 0 {
		return []catalog.Batch{}, nil
	}
	return r.find(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC"))
}

// Save creates or updates a batch
func (r *GormBatchRepository) Save(ctx context.Context, batch *catalog.Batch) error {
	return r.db.WithContext(ctx).Save(models.BatchModelFromDomain(batch)).Error
}

// DecrementQuantity subtracts quantity from an in-stock batch only if enough remains.
// Zero affected rows means another writer got there first.
func (r *GormBatchRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	if !quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Decrement quantity must be positive")
	}
	result := r.db.WithContext(ctx).
		Model(&models.BatchModel{}).
		Where("id = ? AND status = ? AND current_quantity >= ?", id, catalog.BatchStatusInStock, quantity).
		Updates(map[string]any{
			"current_quantity": gorm.Expr("current_quantity - ?", quantity),
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

// MarkExpired flips an in-stock batch to expired. Only status and version are
// written so a draw committed after the batch was read is kept.
func (r *GormBatchRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.BatchModel{}).
		Where("id = ? AND status = ?", id, catalog.BatchStatusInStock).
		Updates(map[string]any{
			"status":     catalog.BatchStatusExpired,
			"version":    gorm.Expr("version + 1"),
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

func (r *GormBatchRepository) find(query *gorm.DB) ([]catalog.Batch, error) {
	var batchModels []models.BatchModel
	if err := query.Find(&batchModels).Error; err != nil {
		return nil, err
	}
	batches := make([]catalog.Batch, len(batchModels))
	for i := range batchModels {
		batches[i] = *batchModels[i].ToDomain()
	}
	return batches, nil
}

// Ensure GormBatchRepository implements BatchRepository
var _ catalog.BatchRepository = (*GormBatchRepository)(nil)
