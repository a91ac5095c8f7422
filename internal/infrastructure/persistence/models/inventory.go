package models

import (
	"github.com/freshchain/scms/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InventoryRecordModel is the persistence model for the InventoryRecord aggregate root.
type InventoryRecordModel struct {
	AggregateModel
	BatchID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_inventory_batch_location,priority:1"`
	ProductID      uuid.UUID        `gorm:"type:uuid;not null;index"`
	Location       string           `gorm:"type:varchar(100);not null;uniqueIndex:idx_inventory_batch_location,priority:2"`
	QuantityOnHand decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ReorderPoint   *decimal.Decimal `gorm:"type:decimal(18,4)"`
}

// TableName returns the table name for GORM
func (InventoryRecordModel) TableName() string {
	return "inventory_records"
}

// ToDomain converts the persistence model to a domain InventoryRecord entity.
func (m *InventoryRecordModel) ToDomain() *inventory.InventoryRecord {
	return &inventory.InventoryRecord{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		BatchID:           m.BatchID,
		ProductID:         m.ProductID,
		Location:          m.Location,
		QuantityOnHand:    m.QuantityOnHand,
		ReorderPoint:      m.ReorderPoint,
	}
}

// FromDomain populates the persistence model from a domain InventoryRecord entity.
func (m *InventoryRecordModel) FromDomain(r *inventory.InventoryRecord) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.BatchID = r.BatchID
	m.ProductID = r.ProductID
	m.Location = r.Location
	m.QuantityOnHand = r.QuantityOnHand
	m.ReorderPoint = r.ReorderPoint
}

// InventoryRecordModelFromDomain creates a new persistence model from a domain InventoryRecord entity.
func InventoryRecordModelFromDomain(r *inventory.InventoryRecord) *InventoryRecordModel {
	m := &InventoryRecordModel{}
	m.FromDomain(r)
	return m
}
