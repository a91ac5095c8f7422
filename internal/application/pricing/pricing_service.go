package pricing

import (
	"context"
	"fmt"
	"time"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingStrategyProvider resolves a pricing strategy by name, empty meaning the default
type PricingStrategyProvider interface {
	GetPricingStrategy(name string) (strategy.PricingStrategy, error)
}

// ExpiringBatchFinder lists in-stock batches expiring within a number of days
type ExpiringBatchFinder interface {
	FindExpiringBatches(ctx context.Context, withinDays int) ([]catalog.Batch, error)
}

// SnapshotCache caches tiers and active rules, the read-mostly inputs of every quote.
// A miss is reported with ok == false; implementations log their own failures.
type SnapshotCache interface {
	GetTiers(ctx context.Context) (tiers []pricing.PricingTier, ok bool)
	SetTiers(ctx context.Context, tiers []pricing.PricingTier)
	GetRules(ctx context.Context) (rules []pricing.PricingRule, ok bool)
	SetRules(ctx context.Context, rules []pricing.PricingRule)
	InvalidateRules(ctx context.Context)
}

// PricingService computes retailer prices from tiers, overrides and stacked rules
type PricingService struct {
	productRepo  catalog.ProductRepository
	batchRepo    catalog.BatchRepository
	retailerRepo pricing.RetailerRepository
	tierRepo     pricing.TierRepository
	overrideRepo pricing.RetailerPricingRepository
	ruleRepo     pricing.RuleRepository
	strategies   PricingStrategyProvider
	expiring     ExpiringBatchFinder
	cache        SnapshotCache
	clock        shared.Clock
	logger       *zap.Logger
}

// NewPricingService creates a new PricingService
func NewPricingService(
	productRepo catalog.ProductRepository,
	batchRepo catalog.BatchRepository,
	retailerRepo pricing.RetailerRepository,
	tierRepo pricing.TierRepository,
	overrideRepo pricing.RetailerPricingRepository,
	ruleRepo pricing.RuleRepository,
	strategies PricingStrategyProvider,
	expiring ExpiringBatchFinder,
	logger *zap.Logger,
) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		productRepo:  productRepo,
		batchRepo:    batchRepo,
		retailerRepo: retailerRepo,
		tierRepo:     tierRepo,
		overrideRepo: overrideRepo,
		ruleRepo:     ruleRepo,
		strategies:   strategies,
		expiring:     expiring,
		clock:        shared.SystemClock,
		logger:       logger,
	}
}

// SetCache sets the tier and rule cache
func (s *PricingService) SetCache(cache SnapshotCache) {
	s.cache = cache
}

// SetClock overrides the pricing clock
func (s *PricingService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// Quote prices a quantity of a product for a retailer, optionally for a specific batch
func (s *PricingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "pricing", "quote")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrRetailerID, req.RetailerID.String(),
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
	)

	response, err := s.quote(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return response, nil
}

func (s *PricingService) quote(ctx context.Context, req QuoteRequest) (*QuoteResponse, error) {
	if !req.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	retailer, err := s.retailerRepo.FindByID(ctx, req.RetailerID)
	if err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var expiresOn *time.Time
	if req.BatchID != nil {
		batch, err := s.batchRepo.FindByID(ctx, *req.BatchID)
		if err != nil {
			return nil, err
		}
		if batch.ProductID != product.ID {
			return nil, shared.NewDomainError("INVALID_BATCH", fmt.Sprintf("Batch %s does not belong to product %s", batch.BatchNumber, product.SKU))
		}
		expiresOn = &batch.ExpirationDate
	}

	snap, err := s.Snapshot(ctx, retailer)
	if err != nil {
		return nil, err
	}
	result, err := s.PriceWith(ctx, snap, product, req.Quantity, expiresOn)
	if err != nil {
		return nil, err
	}
	response := toQuoteResponse(retailer.ID, product.ID, req.BatchID, result, snap.At)
	return &response, nil
}

// QuoteBulk prices several products for one retailer against a single snapshot
func (s *PricingService) QuoteBulk(ctx context.Context, req BulkQuoteRequest) (*BulkQuoteResponse, error) {
	if len(req.Items) == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "At least one item is required")
	}
	for _, item := range req.Items {
		if !item.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
	}

	retailer, err := s.retailerRepo.FindByID(ctx, req.RetailerID)
	if err != nil {
		return nil, err
	}
	snap, err := s.Snapshot(ctx, retailer)
	if err != nil {
		return nil, err
	}

	response := &BulkQuoteResponse{
		RetailerID: retailer.ID,
		Items:      make([]QuoteResponse, 0, len(req.Items)),
		Total:      decimal.Zero,
	}
	for _, item := range req.Items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		result, err := s.PriceWith(ctx, snap, product, item.Quantity, nil)
		if err != nil {
			return nil, err
		}
		response.Items = append(response.Items, toQuoteResponse(retailer.ID, product.ID, nil, result, snap.At))
		response.Total = response.Total.Add(result.LineTotal)
	}
	return response, nil
}

// Snapshot loads the pricing inputs for a retailer as of now
func (s *PricingService) Snapshot(ctx context.Context, retailer *pricing.Retailer) (*Snapshot, error) {
	now := s.clock()

	overrides, err := s.overrideRepo.FindActiveByRetailer(ctx, retailer.ID)
	if err != nil {
		return nil, fmt.Errorf("load retailer pricing: %w", err)
	}
	tiers, err := s.loadTiers(ctx)
	if err != nil {
		return nil, err
	}
	rules, err := s.loadRules(ctx)
	if err != nil {
		return nil, err
	}

	snap := newSnapshot(retailer, now, overrides, tiers, rules)
	if missing := snap.MissingTier(); missing != nil {
		s.logger.Warn("Retailer references a missing pricing tier, pricing without tier discount",
			zap.String("retailer_id", retailer.ID.String()),
			zap.String("tier_id", missing.String()),
		)
	}
	return snap, nil
}

// PriceWith prices one product against a snapshot. expiresOn is the expiration
// date of the batch being priced; nil disables expiry rules.
func (s *PricingService) PriceWith(
	ctx context.Context,
	snap *Snapshot,
	product *catalog.Product,
	quantity decimal.Decimal,
	expiresOn *time.Time,
) (strategy.PricingResult, error) {
	priceStrategy, err := s.strategies.GetPricingStrategy("")
	if err != nil {
		return strategy.PricingResult{}, err
	}

	pricingCtx := strategy.PricingContext{
		RetailerID: snap.Retailer.ID.String(),
		ProductID:  product.ID.String(),
		Quantity:   quantity,
		BasePrice:  product.MRP,
		Base:       snap.BaseAdjustment(product.ID),
		Rules:      snap.Rules(product.ID),
		PricedAt:   snap.At,
	}
	if expiresOn != nil {
		days := shared.DaysBetween(snap.At, *expiresOn)
		pricingCtx.DaysUntilExpiry = &days
	}
	return priceStrategy.CalculatePrice(ctx, pricingCtx)
}

// SuggestExpiryDiscounts proposes a clearance discount for every batch expiring within withinDays
func (s *PricingService) SuggestExpiryDiscounts(ctx context.Context, withinDays int) ([]ExpiryDiscountSuggestion, error) {
	batches, err := s.expiring.FindExpiringBatches(ctx, withinDays)
	if err != nil {
		return nil, err
	}

	today := shared.DateOf(s.clock())
	products := make(map[uuid.UUID]*catalog.Product)
	suggestions := make([]ExpiryDiscountSuggestion, 0, len(batches))
	for i := range batches {
		batch := &batches[i]
		product, ok := products[batch.ProductID]
		if !ok {
			product, err = s.productRepo.FindByID(ctx, batch.ProductID)
			if err != nil {
				return nil, err
			}
			products[batch.ProductID] = product
		}

		days := batch.DaysUntilExpiry(today)
		pct := pricing.SuggestedExpiryDiscount(days)
		suggestions = append(suggestions, ExpiryDiscountSuggestion{
			BatchID:              batch.ID,
			BatchNumber:          batch.BatchNumber,
			ProductID:            product.ID,
			ProductName:          product.Name,
			DaysUntilExpiry:      days,
			CurrentQuantity:      batch.CurrentQuantity,
			CurrentPrice:         product.MRP,
			SuggestedDiscountPct: pct,
			SuggestedPrice:       product.MRP.Sub(product.MRP.Mul(pct).Div(decimal.NewFromInt(100))).Round(4),
		})
	}
	return suggestions, nil
}

// ApplyExpiryDiscountRules turns suggestions into product-scoped expiry rules.
// A suggestion whose trigger an active rule already covers is skipped.
func (s *PricingService) ApplyExpiryDiscountRules(ctx context.Context, withinDays int) (*ApplyExpiryDiscountsResult, error) {
	suggestions, err := s.SuggestExpiryDiscounts(ctx, withinDays)
	if err != nil {
		return nil, err
	}
	existing, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load active rules: %w", err)
	}

	result := &ApplyExpiryDiscountsResult{Created: make([]uuid.UUID, 0)}
	for _, suggestion := range suggestions {
		rule, err := pricing.NewExpiryClearanceRule(suggestion.ProductID, suggestion.BatchNumber, suggestion.DaysUntilExpiry)
		if err != nil {
			return nil, err
		}
		if hasSameTrigger(existing, rule) {
			result.Skipped++
			continue
		}
		if err := s.ruleRepo.Save(ctx, rule); err != nil {
			return nil, err
		}
		existing = append(existing, *rule)
		result.Created = append(result.Created, rule.ID)
	}

	if len(result.Created) > 0 && s.cache != nil {
		s.cache.InvalidateRules(ctx)
	}
	s.logger.Info("Applied expiry discount rules",
		zap.Int("created", len(result.Created)),
		zap.Int("skipped", result.Skipped),
	)
	return result, nil
}

func (s *PricingService) loadTiers(ctx context.Context) ([]pricing.PricingTier, error) {
	if s.cache != nil {
		if tiers, ok := s.cache.GetTiers(ctx); ok {
			return tiers, nil
		}
	}
	tiers, err := s.tierRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing tiers: %w", err)
	}
	if s.cache != nil {
		s.cache.SetTiers(ctx, tiers)
	}
	return tiers, nil
}

func (s *PricingService) loadRules(ctx context.Context) ([]pricing.PricingRule, error) {
	if s.cache != nil {
		if rules, ok := s.cache.GetRules(ctx); ok {
			return rules, nil
		}
	}
	rules, err := s.ruleRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing rules: %w", err)
	}
	if s.cache != nil {
		s.cache.SetRules(ctx, rules)
	}
	return rules, nil
}

func hasSameTrigger(rules []pricing.PricingRule, candidate *pricing.PricingRule) bool {
	for i := range rules {
		if pricing.SameTrigger(&rules[i], candidate) {
			return true
		}
	}
	return false
}
