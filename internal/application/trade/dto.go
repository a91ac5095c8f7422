package trade

import (
	"time"

	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlaceOrderLine is one requested (product, quantity) pair
type PlaceOrderLine struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,gt=0"`
}

// PlaceOrderRequest is an order intake request
type PlaceOrderRequest struct {
	RetailerID uuid.UUID        `json:"retailer_id" binding:"required"`
	Method     string           `json:"method" binding:"omitempty,oneof=fifo fefo"`
	Location   string           `json:"location" binding:"omitempty,max=100"`
	Lines      []PlaceOrderLine `json:"lines" binding:"required,min=1,dive"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID              uuid.UUID                  `json:"id"`
	LineNo          int                        `json:"line_no"`
	ProductID       uuid.UUID                  `json:"product_id"`
	BatchID         uuid.UUID                  `json:"batch_id"`
	BatchNumber     string                     `json:"batch_number"`
	Location        string                     `json:"location"`
	Quantity        decimal.Decimal            `json:"quantity"`
	BasePrice       decimal.Decimal            `json:"base_price"`
	UnitPrice       decimal.Decimal            `json:"unit_price"`
	DiscountPercent decimal.Decimal            `json:"discount_percent"`
	LineTotal       decimal.Decimal            `json:"line_total"`
	Discounts       []strategy.AppliedDiscount `json:"discounts"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID            uuid.UUID           `json:"id"`
	OrderNumber   string              `json:"order_number"`
	RetailerID    uuid.UUID           `json:"retailer_id"`
	Method        string              `json:"method"`
	Location      string              `json:"location,omitempty"`
	Status        string              `json:"status"`
	TotalAmount   decimal.Decimal     `json:"total_amount"`
	TotalDiscount decimal.Decimal     `json:"total_discount"`
	Lines         []OrderLineResponse `json:"lines"`
	CommittedAt   *time.Time          `json:"committed_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *trade.Order) OrderResponse {
	lines := make([]OrderLineResponse, len(o.Lines))
	for i, line := range o.Lines {
		lines[i] = OrderLineResponse{
			ID:              line.ID,
			LineNo:          line.LineNo,
			ProductID:       line.ProductID,
			BatchID:         line.BatchID,
			BatchNumber:     line.BatchNumber,
			Location:        line.Location,
			Quantity:        line.Quantity,
			BasePrice:       line.BasePrice,
			UnitPrice:       line.UnitPrice,
			DiscountPercent: line.DiscountPercent,
			LineTotal:       line.LineTotal,
			Discounts:       line.Discounts,
		}
	}
	return OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		RetailerID:    o.RetailerID,
		Method:        o.Method,
		Location:      o.Location,
		Status:        o.Status.String(),
		TotalAmount:   o.TotalAmount,
		TotalDiscount: o.TotalDiscount,
		Lines:         lines,
		CommittedAt:   o.CommittedAt,
		CreatedAt:     o.CreatedAt,
	}
}
