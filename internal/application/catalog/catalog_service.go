package catalog

import (
	"context"
	"fmt"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
)

// CatalogService is the read-mostly accessor over products and batches
type CatalogService struct {
	productRepo catalog.ProductRepository
	batchRepo   catalog.BatchRepository
	clock       shared.Clock
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(productRepo catalog.ProductRepository, batchRepo catalog.BatchRepository) *CatalogService {
	return &CatalogService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		clock:       shared.SystemClock,
	}
}

// SetClock overrides the clock used to determine today
func (s *CatalogService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// GetProduct retrieves a product by ID
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// ListProducts lists products with pagination
func (s *CatalogService) ListProducts(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.Search = filter.Search
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}

	products, total, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// GetBatch retrieves a batch by ID
func (s *CatalogService) GetBatch(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToBatchResponse(batch, s.clock())
	return &response, nil
}

// ListBatchesForProduct lists a product's batches, optionally restricted to statuses
func (s *CatalogService) ListBatchesForProduct(ctx context.Context, productID uuid.UUID, statuses ...catalog.BatchStatus) ([]BatchResponse, error) {
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown batch status: %s", status))
		}
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	batches, err := s.batchRepo.FindByProduct(ctx, productID, statuses...)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches, s.clock()), nil
}

// ExpiringBatches returns in-stock batches with quantity left that expire within
// [today, today+withinDays], soonest first
func (s *CatalogService) ExpiringBatches(ctx context.Context, withinDays int) ([]BatchResponse, error) {
	batches, err := s.FindExpiringBatches(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	return ToBatchResponses(batches, s.clock()), nil
}

// FindExpiringBatches is ExpiringBatches returning domain batches, shared by the
// alert scanner and the expiry discount suggestions
func (s *CatalogService) FindExpiringBatches(ctx context.Context, withinDays int) ([]catalog.Batch, error) {
	if withinDays < 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "Look-ahead days cannot be negative")
	}
	today := shared.DateOf(s.clock())
	return s.batchRepo.FindExpiring(ctx, today, today.AddDate(0, 0, withinDays))
}
