package pricing

import (
	"context"
	"time"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBySKU(ctx context.Context, sku string) (*catalog.Product, error) {
	args := m.Called(ctx, sku)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return m.Called(ctx, product).Error(0)
}

type MockBatchRepository struct {
	mock.Mock
}

func (m *MockBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Batch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindByProduct(ctx context.Context, productID uuid.UUID, statuses ...catalog.BatchStatus) ([]catalog.Batch, error) {
	args := m.Called(ctx, productID, statuses)
	return args.Get(0).([]catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindAllocatable(ctx context.Context, productID uuid.UUID) ([]catalog.Batch, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindExpiring(ctx context.Context, from, to time.Time) ([]catalog.Batch, error) {
	args := m.Called(ctx, from, to)
	return args.Get(0).([]catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) FindExpired(ctx context.Context, before time.Time) ([]catalog.Batch, error) {
	args := m.Called(ctx, before)
	return args.Get(0).([]catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) LockByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Batch, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]catalog.Batch), args.Error(1)
}

func (m *MockBatchRepository) Save(ctx context.Context, batch *catalog.Batch) error {
	return m.Called(ctx, batch).Error(0)
}

func (m *MockBatchRepository) DecrementQuantity(ctx context.Context, id uuid.UUID, quantity decimal.Decimal) error {
	return m.Called(ctx, id, quantity).Error(0)
}

func (m *MockBatchRepository) MarkExpired(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockRetailerRepository struct {
	mock.Mock
}

func (m *MockRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.Retailer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.Retailer), args.Error(1)
}

func (m *MockRetailerRepository) Save(ctx context.Context, retailer *pricing.Retailer) error {
	return m.Called(ctx, retailer).Error(0)
}

type MockTierRepository struct {
	mock.Mock
}

func (m *MockTierRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingTier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingTier), args.Error(1)
}

func (m *MockTierRepository) FindAll(ctx context.Context) ([]pricing.PricingTier, error) {
	args := m.Called(ctx)
	return args.Get(0).([]pricing.PricingTier), args.Error(1)
}

func (m *MockTierRepository) Save(ctx context.Context, tier *pricing.PricingTier) error {
	return m.Called(ctx, tier).Error(0)
}

type MockRetailerPricingRepository struct {
	mock.Mock
}

func (m *MockRetailerPricingRepository) FindActiveByRetailer(ctx context.Context, retailerID uuid.UUID) ([]pricing.RetailerPricing, error) {
	args := m.Called(ctx, retailerID)
	return args.Get(0).([]pricing.RetailerPricing), args.Error(1)
}

func (m *MockRetailerPricingRepository) Save(ctx context.Context, override *pricing.RetailerPricing) error {
	return m.Called(ctx, override).Error(0)
}

type MockRuleRepository struct {
	mock.Mock
}

func (m *MockRuleRepository) FindActive(ctx context.Context) ([]pricing.PricingRule, error) {
	args := m.Called(ctx)
	return args.Get(0).([]pricing.PricingRule), args.Error(1)
}

func (m *MockRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*pricing.PricingRule, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pricing.PricingRule), args.Error(1)
}

func (m *MockRuleRepository) Save(ctx context.Context, rule *pricing.PricingRule) error {
	return m.Called(ctx, rule).Error(0)
}

type fakeExpiringFinder struct {
	batches []catalog.Batch
}

func (f *fakeExpiringFinder) FindExpiringBatches(_ context.Context, _ int) ([]catalog.Batch, error) {
	return f.batches, nil
}

type memorySnapshotCache struct {
	tiers         []pricing.PricingTier
	rules         []pricing.PricingRule
	hasTiers      bool
	hasRules      bool
	invalidations int
}

func (c *memorySnapshotCache) GetTiers(_ context.Context) ([]pricing.PricingTier, bool) {
	return c.tiers, c.hasTiers
}

func (c *memorySnapshotCache) SetTiers(_ context.Context, tiers []pricing.PricingTier) {
	c.tiers, c.hasTiers = tiers, true
}

func (c *memorySnapshotCache) GetRules(_ context.Context) ([]pricing.PricingRule, bool) {
	return c.rules, c.hasRules
}

func (c *memorySnapshotCache) SetRules(_ context.Context, rules []pricing.PricingRule) {
	c.rules, c.hasRules = rules, true
}

func (c *memorySnapshotCache) InvalidateRules(_ context.Context) {
	c.rules, c.hasRules = nil, false
	c.invalidations++
}
