package trade

import (
	"context"
	"errors"
	"fmt"
	"time"

	appinventory "github.com/freshchain/scms/internal/application/inventory"
	apppricing "github.com/freshchain/scms/internal/application/pricing"
	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/freshchain/scms/internal/domain/pricing"
	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/domain/trade"
	"github.com/freshchain/scms/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockReserver draws stock for one product inside a caller-owned transaction
type StockReserver interface {
	Reserve(ctx context.Context, repos appinventory.TransactionalRepositories, req appinventory.AllocationRequest) (*inventory.AllocationPlan, error)
}

// LinePricer prices allocated stock for a retailer
type LinePricer interface {
	Snapshot(ctx context.Context, retailer *pricing.Retailer) (*apppricing.Snapshot, error)
	PriceWith(ctx context.Context, snap *apppricing.Snapshot, product *catalog.Product, quantity decimal.Decimal, expiresOn *time.Time) (strategy.PricingResult, error)
}

// OrderMetrics receives order outcomes
type OrderMetrics interface {
	RecordOrderCommitted(ctx context.Context, method string, lines int, total decimal.Decimal)
	RecordOrderAborted(ctx context.Context, reason string)
}

// OrderAssembler allocates and prices every line of an order and commits the
// order together with its stock draws, or nothing at all
type OrderAssembler struct {
	retailerRepo   pricing.RetailerRepository
	productRepo    catalog.ProductRepository
	orderRepo      trade.OrderRepository
	reserver       StockReserver
	pricer         LinePricer
	txScope        appinventory.TransactionScope
	retry          appinventory.RetryPolicy
	eventPublisher shared.EventPublisher
	metrics        OrderMetrics
	logger         *zap.Logger
}

// NewOrderAssembler creates a new OrderAssembler
func NewOrderAssembler(
	retailerRepo pricing.RetailerRepository,
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	reserver StockReserver,
	pricer LinePricer,
	txScope appinventory.TransactionScope,
	logger *zap.Logger,
) *OrderAssembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderAssembler{
		retailerRepo: retailerRepo,
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		reserver:     reserver,
		pricer:       pricer,
		txScope:      txScope,
		retry:        appinventory.DefaultRetryPolicy(),
		logger:       logger,
	}
}

// SetRetryPolicy sets the conflict retry policy
func (a *OrderAssembler) SetRetryPolicy(policy appinventory.RetryPolicy) {
	a.retry = policy
}

// SetEventPublisher sets the event publisher for domain events
func (a *OrderAssembler) SetEventPublisher(publisher shared.EventPublisher) {
	a.eventPublisher = publisher
}

// SetMetrics sets the metrics sink
func (a *OrderAssembler) SetMetrics(metrics OrderMetrics) {
	a.metrics = metrics
}

// PlaceOrder allocates, prices and commits an order. Every line draws in the
// requested method (FEFO when empty). A shortfall on any line aborts the whole
// order and returns *inventory.InsufficientStockError with nothing persisted.
func (a *OrderAssembler) PlaceOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "place")
	defer span.End()

	telemetry.SetAttributes(span,
		telemetry.SpanAttrRetailerID, req.RetailerID.String(),
		telemetry.SpanAttrLineCount, len(req.Lines),
		telemetry.SpanAttrMethod, req.Method,
	)

	response, err := a.placeOrder(ctx, req)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, response.ID.String(),
		telemetry.SpanAttrOrderNumber, response.OrderNumber,
		telemetry.SpanAttrTotalAmount, response.TotalAmount.String(),
	)
	telemetry.SetOK(span)
	return response, nil
}

func (a *OrderAssembler) placeOrder(ctx context.Context, req PlaceOrderRequest) (*OrderResponse, error) {
	if err := validatePlaceOrder(req); err != nil {
		return nil, err
	}

	retailer, err := a.retailerRepo.FindByID(ctx, req.RetailerID)
	if err != nil {
		return nil, err
	}
	if !retailer.IsActive() {
		return nil, shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Retailer %s is %s", retailer.Name, retailer.Status))
	}

	products := make(map[uuid.UUID]*catalog.Product, len(req.Lines))
	for _, line := range req.Lines {
		if _, ok := products[line.ProductID]; ok {
			continue
		}
		product, err := a.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		products[line.ProductID] = product
	}

	snap, err := a.pricer.Snapshot(ctx, retailer)
	if err != nil {
		return nil, err
	}

	var order *trade.Order
	err = a.retry.Do(ctx, a.logger, "place_order", func(attempt int) error {
		return a.txScope.Execute(ctx, func(repos appinventory.TransactionalRepositories) error {
			var err error
			order, err = a.assemble(ctx, repos, req, products, snap)
			if err != nil {
				return err
			}
			return repos.OrderRepo().Save(ctx, order)
		})
	})
	if err != nil {
		a.recordAbort(ctx, order, err)
		return nil, err
	}

	if a.metrics != nil {
		a.metrics.RecordOrderCommitted(ctx, order.Method, len(order.Lines), order.TotalAmount)
	}
	a.publishDomainEvents(ctx, order)
	a.logger.Info("Order committed",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(order.Lines)),
		zap.String("total", order.TotalAmount.String()),
	)

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder retrieves a committed order with its lines
func (a *OrderAssembler) GetOrder(ctx context.Context, id uuid.UUID) (*OrderResponse, error) {
	order, err := a.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// assemble builds the order inside the transaction. The returned order is committed
// in memory only; the caller persists it before the transaction ends.
func (a *OrderAssembler) assemble(
	ctx context.Context,
	repos appinventory.TransactionalRepositories,
	req PlaceOrderRequest,
	products map[uuid.UUID]*catalog.Product,
	snap *apppricing.Snapshot,
) (*trade.Order, error) {
	order, err := trade.NewOrder(req.RetailerID, req.Method, req.Location)
	if err != nil {
		return nil, err
	}

	for _, line := range req.Lines {
		plan, err := a.reserver.Reserve(ctx, repos, appinventory.AllocationRequest{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Method:    req.Method,
			Location:  req.Location,
		})
		if err != nil {
			_ = order.Abort(err.Error())
			return order, err
		}
		order.Method = plan.Method

		product := products[line.ProductID]
		for _, draw := range plan.Lines {
			expiresOn := draw.ExpirationDate
			price, err := a.pricer.PriceWith(ctx, snap, product, draw.Quantity, &expiresOn)
			if err != nil {
				_ = order.Abort(err.Error())
				return order, err
			}
			if _, err := order.AddLine(product.ID, draw.BatchID, draw.BatchNumber, draw.Location, price); err != nil {
				return order, err
			}
		}
	}

	if err := order.MarkPriced(); err != nil {
		return order, err
	}
	if err := order.Commit(); err != nil {
		return order, err
	}
	return order, nil
}

func (a *OrderAssembler) recordAbort(ctx context.Context, order *trade.Order, err error) {
	reason := "error"
	var shortfall *inventory.InsufficientStockError
	switch {
	case errors.As(err, &shortfall):
		reason = "insufficient_stock"
	case errors.Is(err, shared.ErrConcurrencyConflict):
		reason = "concurrency_conflict"
	case shared.IsValidationError(err):
		reason = "validation"
	}
	if a.metrics != nil {
		a.metrics.RecordOrderAborted(ctx, reason)
	}

	fields := []zap.Field{zap.String("reason", reason), zap.Error(err)}
	if order != nil {
		fields = append(fields, zap.String("order_number", order.OrderNumber))
	}
	a.logger.Info("Order aborted", fields...)
}

// publishDomainEvents publishes all domain events from the order
func (a *OrderAssembler) publishDomainEvents(ctx context.Context, order *trade.Order) {
	if a.eventPublisher == nil {
		return
	}
	events := order.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	// Publish events (errors are logged by the event bus, not propagated)
	_ = a.eventPublisher.Publish(ctx, events...)
	order.ClearDomainEvents()
}

func validatePlaceOrder(req PlaceOrderRequest) error {
	if req.RetailerID == uuid.Nil {
		return shared.NewDomainError("INVALID_RETAILER", "Retailer ID is required")
	}
	if len(req.Lines) == 0 {
		return shared.NewDomainError("INVALID_INPUT", "Order must have at least one line")
	}
	for i, line := range req.Lines {
		if line.ProductID == uuid.Nil {
			return shared.NewDomainError("INVALID_PRODUCT", fmt.Sprintf("Line %d has no product", i+1))
		}
		if !line.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", fmt.Sprintf("Line %d quantity must be positive", i+1))
		}
	}
	return nil
}
