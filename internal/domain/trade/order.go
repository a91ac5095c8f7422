package trade

import (
	"fmt"
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPriced    OrderStatus = "priced"
	OrderStatusCommitted OrderStatus = "committed"
	OrderStatusAborted   OrderStatus = "aborted"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPriced, OrderStatusCommitted, OrderStatusAborted:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusPriced || target == OrderStatusAborted
	case OrderStatusPriced:
		return target == OrderStatusCommitted || target == OrderStatusAborted
	case OrderStatusCommitted, OrderStatusAborted:
		return false // Terminal states
	}
	return false
}

// OrderLine is one (batch, quantity) draw of an order with its price
type OrderLine struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	LineNo          int
	ProductID       uuid.UUID
	BatchID         uuid.UUID
	BatchNumber     string
	Location        string
	Quantity        decimal.Decimal
	BasePrice       decimal.Decimal
	UnitPrice       decimal.Decimal
	DiscountPercent decimal.Decimal
	LineTotal       decimal.Decimal
	Discounts       []strategy.AppliedDiscount
}

// Order is the priced, batch-attributed result of one order request
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber   string
	RetailerID    uuid.UUID
	Method        string
	Location      string
	Status        OrderStatus
	Lines         []OrderLine
	TotalAmount   decimal.Decimal
	TotalDiscount decimal.Decimal
	CommittedAt   *time.Time
	AbortReason   string
}

// NewOrder creates a pending order
func NewOrder(retailerID uuid.UUID, method, location string) (*Order, error) {
	if retailerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETAILER", "Retailer ID cannot be empty")
	}

	order := &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RetailerID:        retailerID,
		Method:            method,
		Location:          strings.TrimSpace(location),
		Status:            OrderStatusPending,
		Lines:             make([]OrderLine, 0),
		TotalAmount:       decimal.Zero,
		TotalDiscount:     decimal.Zero,
	}
	order.OrderNumber = generateOrderNumber(order.ID, order.CreatedAt)
	return order, nil
}

// AddLine appends a priced draw. Only allowed while pending.
func (o *Order) AddLine(productID uuid.UUID, batchID uuid.UUID, batchNumber, location string, price strategy.PricingResult) (*OrderLine, error) {
	if o.Status != OrderStatusPending {
		return nil, shared.NewDomainError("INVALID_STATE", "Cannot add lines to an order that is not pending")
	}
	if !price.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
	}

	line := OrderLine{
		ID:              uuid.New(),
		OrderID:         o.ID,
		LineNo:          len(o.Lines) + 1,
		ProductID:       productID,
		BatchID:         batchID,
		BatchNumber:     batchNumber,
		Location:        location,
		Quantity:        price.Quantity,
		BasePrice:       price.BasePrice,
		UnitPrice:       price.UnitPrice,
		DiscountPercent: price.DiscountPercent,
		LineTotal:       price.LineTotal,
		Discounts:       price.Discounts,
	}
	o.Lines = append(o.Lines, line)
	o.recalculateTotals()
	o.UpdatedAt = time.Now()

	return &o.Lines[len(o.Lines)-1], nil
}

// MarkPriced closes the order for new lines
func (o *Order) MarkPriced() error {
	if len(o.Lines) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order has no lines")
	}
	return o.transitionTo(OrderStatusPriced)
}

// Commit marks the order committed and records an OrderCommitted event
func (o *Order) Commit() error {
	if err := o.transitionTo(OrderStatusCommitted); err != nil {
		return err
	}
	now := time.Now()
	o.CommittedAt = &now
	o.AddDomainEvent(NewOrderCommittedEvent(o))
	return nil
}

// Abort marks the order aborted with a reason
func (o *Order) Abort(reason string) error {
	if err := o.transitionTo(OrderStatusAborted); err != nil {
		return err
	}
	o.AbortReason = reason
	return nil
}

// Quantity returns the total quantity of a product across lines
func (o *Order) Quantity(productID uuid.UUID) decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		if line.ProductID == productID {
			total = total.Add(line.Quantity)
		}
	}
	return total
}

func (o *Order) transitionTo(target OrderStatus) error {
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Order cannot move from %s to %s", o.Status, target))
	}
	o.Status = target
	o.UpdatedAt = time.Now()
	return nil
}

func (o *Order) recalculateTotals() {
	total := decimal.Zero
	discount := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.LineTotal)
		discount = discount.Add(line.BasePrice.Sub(line.UnitPrice).Mul(line.Quantity))
	}
	o.TotalAmount = total
	o.TotalDiscount = discount
}

func generateOrderNumber(id uuid.UUID, at time.Time) string {
	return fmt.Sprintf("SO-%s-%s", at.Format("20060102"), strings.ToUpper(id.String()[:8]))
}
