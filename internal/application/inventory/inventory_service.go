package inventory

import (
	"context"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/google/uuid"
)

// InventoryService answers stock-level questions over inventory records
type InventoryService struct {
	productRepo catalog.ProductRepository
	recordRepo  inventory.RecordRepository
}

// NewInventoryService creates a new InventoryService
func NewInventoryService(productRepo catalog.ProductRepository, recordRepo inventory.RecordRepository) *InventoryService {
	return &InventoryService{
		productRepo: productRepo,
		recordRepo:  recordRepo,
	}
}

// Summary returns a product's on-hand stock in total and per location
func (s *InventoryService) Summary(ctx context.Context, productID uuid.UUID) (*inventory.Summary, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	records, err := s.recordRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	summary := inventory.Summarize(productID, records)
	return &summary, nil
}
