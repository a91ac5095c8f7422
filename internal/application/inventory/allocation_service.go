package inventory

import (
	"context"
	"sort"
	"strings"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BatchStrategyProvider resolves a batch selection strategy by name, empty meaning the default.
// This decouples AllocationService from the concrete StrategyRegistry implementation
type BatchStrategyProvider interface {
	GetBatchStrategy(name string) (strategy.BatchManagementStrategy, error)
}

// AllocationMetrics receives allocation outcomes
type AllocationMetrics interface {
	RecordShortfall(ctx context.Context, method string)
	RecordConflictRetry(ctx context.Context, operation string)
}

// AllocationService selects batches for a requested quantity and draws stock from them
type AllocationService struct {
	productRepo catalog.ProductRepository
	batchRepo   catalog.BatchRepository
	recordRepo  inventory.RecordRepository
	strategies  BatchStrategyProvider
	txScope     TransactionScope
	retry       RetryPolicy
	clock       shared.Clock
	logger      *zap.Logger
	metrics     AllocationMetrics
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	productRepo catalog.ProductRepository,
	batchRepo catalog.BatchRepository,
	recordRepo inventory.RecordRepository,
	strategies BatchStrategyProvider,
	txScope TransactionScope,
	logger *zap.Logger,
) *AllocationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AllocationService{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		recordRepo:  recordRepo,
		strategies:  strategies,
		txScope:     txScope,
		retry:       DefaultRetryPolicy(),
		clock:       shared.SystemClock,
		logger:      logger,
	}
}

// SetRetryPolicy sets the conflict retry policy
func (s *AllocationService) SetRetryPolicy(policy RetryPolicy) {
	s.retry = policy
}

// SetClock overrides the clock used for FEFO expiry checks
func (s *AllocationService) SetClock(clock shared.Clock) {
	s.clock = clock
}

// SetMetrics sets the metrics sink
func (s *AllocationService) SetMetrics(metrics AllocationMetrics) {
	s.metrics = metrics
}

// Plan computes which batches would satisfy the request without writing anything
func (s *AllocationService) Plan(ctx context.Context, req AllocationRequest) (*inventory.AllocationPlan, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}
	return s.plan(ctx, s.batchRepo, s.recordRepo, req)
}

// Allocate plans and commits a single-product draw in its own transaction.
// A shortfall returns *inventory.InsufficientStockError and writes nothing.
func (s *AllocationService) Allocate(ctx context.Context, req AllocationRequest) (*inventory.AllocationPlan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "allocation", "allocate")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrProductID, req.ProductID.String(),
		telemetry.SpanAttrQuantity, req.Quantity.String(),
		telemetry.SpanAttrMethod, req.Method,
		telemetry.SpanAttrLocation, req.Location,
	)

	if err := validateRequest(req); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var plan *inventory.AllocationPlan
	err := s.retry.Do(ctx, s.logger, "allocate", func(attempt int) error {
		if attempt > 0 && s.metrics != nil {
			s.metrics.RecordConflictRetry(ctx, "allocate")
		}
		return s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
			var err error
			plan, err = s.Reserve(ctx, repos, req)
			return err
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return plan, err
	}
	telemetry.SetOK(span)
	return plan, nil
}

// Reserve runs inside the caller's transaction: it locks the product's candidate
// batch and inventory rows, plans against the locked quantities and applies guarded
// decrements. On shortfall it returns the partial plan with *inventory.InsufficientStockError
// before touching any row, and the caller is expected to roll back.
func (s *AllocationService) Reserve(ctx context.Context, repos TransactionalRepositories, req AllocationRequest) (*inventory.AllocationPlan, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	candidates, err := repos.BatchRepo().FindAllocatable(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	ids := sortedBatchIDs(candidates)
	if len(ids) > 0 {
		if _, err := repos.BatchRepo().LockByIDs(ctx, ids); err != nil {
			return nil, err
		}
		if _, err := repos.RecordRepo().LockByBatches(ctx, ids); err != nil {
			return nil, err
		}
	}

	plan, err := s.plan(ctx, repos.BatchRepo(), repos.RecordRepo(), req)
	if err != nil {
		return nil, err
	}
	if plan.HasShortfall() {
		telemetry.AddEvent(telemetry.SpanFromContext(ctx), "allocation_shortfall",
			telemetry.SpanAttrProductID, plan.ProductID.String(),
			telemetry.SpanAttrShortfall, plan.Shortfall.String(),
		)
		if s.metrics != nil {
			s.metrics.RecordShortfall(ctx, plan.Method)
		}
		s.logger.Info("Allocation shortfall",
			zap.String("product_id", plan.ProductID.String()),
			zap.String("requested", plan.Requested.String()),
			zap.String("shortfall", plan.Shortfall.String()),
		)
		return plan, inventory.NewInsufficientStockError(plan)
	}

	if err := s.commit(ctx, repos, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// commit applies the plan's decrements. Batches are decremented in ID order, matching the lock order.
func (s *AllocationService) commit(ctx context.Context, repos TransactionalRepositories, plan *inventory.AllocationPlan) error {
	totals := plan.BatchTotals()
	ids := plan.BatchIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	for _, id := range ids {
		if err := repos.BatchRepo().DecrementQuantity(ctx, id, totals[id]); err != nil {
			return err
		}
	}
	for _, line := range plan.Lines {
		if err := repos.RecordRepo().DecrementQuantity(ctx, line.InventoryRecordID, line.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// plan walks the eligible batches in strategy order. A batch is drawable up to the
// smaller of its current quantity and what its in-scope inventory records hold.
func (s *AllocationService) plan(
	ctx context.Context,
	batchRepo catalog.BatchRepository,
	recordRepo inventory.RecordRepository,
	req AllocationRequest,
) (*inventory.AllocationPlan, error) {
	selector, err := s.strategies.GetBatchStrategy(req.Method)
	if err != nil {
		return nil, err
	}
	location := strings.TrimSpace(req.Location)

	batches, err := batchRepo.FindAllocatable(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	recordsByBatch := map[uuid.UUID][]inventory.InventoryRecord{}
	if len(batches) > 0 {
		records, err := recordRepo.FindByBatches(ctx, sortedBatchIDs(batches), location)
		if err != nil {
			return nil, err
		}
		recordsByBatch = groupRecords(records)
	}

	candidates := make([]strategy.Batch, 0, len(batches))
	for i := range batches {
		onHand := decimal.Zero
		for _, rec := range recordsByBatch[batches[i].ID] {
			onHand = onHand.Add(rec.QuantityOnHand)
		}
		if !onHand.IsPositive() {
			continue
		}
		candidates = append(candidates, batches[i].ToStrategyBatch(onHand))
	}

	result, err := selector.SelectBatches(ctx, strategy.BatchSelectionContext{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Today:     s.clock(),
	}, candidates)
	if err != nil {
		return nil, err
	}

	plan := &inventory.AllocationPlan{
		ProductID: req.ProductID,
		Method:    selector.Name(),
		Location:  location,
		Requested: req.Quantity,
		Allocated: result.TotalQty,
		Shortfall: result.ShortfallQty,
		Lines:     make([]inventory.AllocationLine, 0, len(result.Selections)),
	}
	for _, sel := range result.Selections {
		remaining := sel.Quantity
		for _, rec := range recordsByBatch[sel.BatchID] {
			if !remaining.IsPositive() {
				break
			}
			take := decimal.Min(remaining, rec.QuantityOnHand)
			if !take.IsPositive() {
				continue
			}
			plan.Lines = append(plan.Lines, inventory.AllocationLine{
				BatchID:           sel.BatchID,
				BatchNumber:       sel.BatchNumber,
				InventoryRecordID: rec.ID,
				Location:          rec.Location,
				Quantity:          take,
				ExpirationDate:    sel.ExpiryDate,
			})
			remaining = remaining.Sub(take)
		}
	}
	return plan, nil
}

func validateRequest(req AllocationRequest) error {
	if req.ProductID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID is required")
	}
	if !req.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return nil
}

func sortedBatchIDs(batches []catalog.Batch) []uuid.UUID {
	ids := make([]uuid.UUID, len(batches))
	for i := range batches {
		ids[i] = batches[i].ID
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
	return ids
}

// groupRecords groups records with stock by batch, each group ordered by location then ID
func groupRecords(records []inventory.InventoryRecord) map[uuid.UUID][]inventory.InventoryRecord {
	grouped := make(map[uuid.UUID][]inventory.InventoryRecord)
	for _, rec := range records {
		if rec.QuantityOnHand.IsPositive() {
			grouped[rec.BatchID] = append(grouped[rec.BatchID], rec)
		}
	}
	for _, recs := range grouped {
		sort.Slice(recs, func(i, j int) bool {
			if recs[i].Location != recs[j].Location {
				return recs[i].Location < recs[j].Location
			}
			return recs[i].ID.String() < recs[j].ID.String()
		})
	}
	return grouped
}
