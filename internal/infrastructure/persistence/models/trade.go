package models

import (
	"encoding/json"
	"time"

	"github.com/freshchain/scms/internal/domain/shared/strategy"
	"github.com/freshchain/scms/internal/domain/trade"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderModel is the persistence model for the Order aggregate root.
type OrderModel struct {
	AggregateModel
	OrderNumber   string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	RetailerID    uuid.UUID         `gorm:"type:uuid;not null;index"`
	Method        string            `gorm:"type:varchar(20);not null"`
	Location      string            `gorm:"type:varchar(100)"`
	Status        trade.OrderStatus `gorm:"type:varchar(20);not null;default:'pending'"`
	Lines         []OrderLineModel  `gorm:"foreignKey:OrderID;references:ID"`
	TotalAmount   decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	TotalDiscount decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	CommittedAt   *time.Time        `gorm:"index"`
	AbortReason   string            `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// ToDomain converts the persistence model to a domain Order entity.
func (m *OrderModel) ToDomain() *trade.Order {
	order := &trade.Order{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		OrderNumber:       m.OrderNumber,
		RetailerID:        m.RetailerID,
		Method:            m.Method,
		Location:          m.Location,
		Status:            m.Status,
		Lines:             make([]trade.OrderLine, len(m.Lines)),
		TotalAmount:       m.TotalAmount,
		TotalDiscount:     m.TotalDiscount,
		CommittedAt:       m.CommittedAt,
		AbortReason:       m.AbortReason,
	}
	for i := range m.Lines {
		order.Lines[i] = *m.Lines[i].ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order entity.
func (m *OrderModel) FromDomain(o *trade.Order) {
	m.FromDomainAggregateRoot(o.BaseAggregateRoot)
	m.OrderNumber = o.OrderNumber
	m.RetailerID = o.RetailerID
	m.Method = o.Method
	m.Location = o.Location
	m.Status = o.Status
	m.TotalAmount = o.TotalAmount
	m.TotalDiscount = o.TotalDiscount
	m.CommittedAt = o.CommittedAt
	m.AbortReason = o.AbortReason
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i := range o.Lines {
		m.Lines[i].FromDomain(&o.Lines[i])
		m.Lines[i].CreatedAt = o.CreatedAt
		m.Lines[i].UpdatedAt = o.UpdatedAt
	}
}

// OrderModelFromDomain creates a new persistence model from a domain Order entity.
func OrderModelFromDomain(o *trade.Order) *OrderModel {
	m := &OrderModel{}
	m.FromDomain(o)
	return m
}

// OrderLineModel is the persistence model for the OrderLine entity.
type OrderLineModel struct {
	BaseModel
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	LineNo          int             `gorm:"not null"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	BatchNumber     string          `gorm:"type:varchar(50);not null"`
	Location        string          `gorm:"type:varchar(100);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BasePrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(7,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountsJSON   string          `gorm:"column:discounts;type:jsonb;default:'[]'"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ToDomain converts the persistence model to a domain OrderLine entity.
func (m *OrderLineModel) ToDomain() *trade.OrderLine {
	line := &trade.OrderLine{
		ID:              m.ID,
		OrderID:         m.OrderID,
		LineNo:          m.LineNo,
		ProductID:       m.ProductID,
		BatchID:         m.BatchID,
		BatchNumber:     m.BatchNumber,
		Location:        m.Location,
		Quantity:        m.Quantity,
		BasePrice:       m.BasePrice,
		UnitPrice:       m.UnitPrice,
		DiscountPercent: m.DiscountPercent,
		LineTotal:       m.LineTotal,
		Discounts:       make([]strategy.AppliedDiscount, 0),
	}
	if m.DiscountsJSON != "" && m.DiscountsJSON != "[]" {
		if err := json.Unmarshal([]byte(m.DiscountsJSON), &line.Discounts); err != nil {
			modelLogger.Warn("failed to parse order line discounts JSON",
				zap.String("line_id", m.ID.String()),
				zap.Error(err))
		}
	}
	return line
}

// FromDomain populates the persistence model from a domain OrderLine entity.
func (m *OrderLineModel) FromDomain(l *trade.OrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.LineNo = l.LineNo
	m.ProductID = l.ProductID
	m.BatchID = l.BatchID
	m.BatchNumber = l.BatchNumber
	m.Location = l.Location
	m.Quantity = l.Quantity
	m.BasePrice = l.BasePrice
	m.UnitPrice = l.UnitPrice
	m.DiscountPercent = l.DiscountPercent
	m.LineTotal = l.LineTotal
	m.DiscountsJSON = "[]"
	if len(l.Discounts) > 0 {
		if jsonBytes, err := json.Marshal(l.Discounts); err == nil {
			m.DiscountsJSON = string(jsonBytes)
		}
	}
}
