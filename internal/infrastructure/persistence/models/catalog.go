package models

import (
	"time"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	AggregateModel
	SKU           string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_sku"`
	UPC           string          `gorm:"type:varchar(20);index"`
	Name          string          `gorm:"type:varchar(200);not null"`
	Category      string          `gorm:"type:varchar(100);index"`
	Brand         string          `gorm:"type:varchar(100)"`
	MRP           decimal.Decimal `gorm:"column:mrp;type:decimal(18,4);not null;default:0"`
	UnitOfMeasure string          `gorm:"type:varchar(20);not null"`
	ShelfLifeDays int             `gorm:"not null;default:0"`
	IsPerishable  bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	return &catalog.Product{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SKU:               m.SKU,
		UPC:               m.UPC,
		Name:              m.Name,
		Category:          m.Category,
		Brand:             m.Brand,
		MRP:               m.MRP,
		UnitOfMeasure:     m.UnitOfMeasure,
		ShelfLifeDays:     m.ShelfLifeDays,
		IsPerishable:      m.IsPerishable,
	}
}

// FromDomain populates the persistence model from a domain Product entity.
func (m *ProductModel) FromDomain(p *catalog.Product) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.SKU = p.SKU
	m.UPC = p.UPC
	m.Name = p.Name
	m.Category = p.Category
	m.Brand = p.Brand
	m.MRP = p.MRP
	m.UnitOfMeasure = p.UnitOfMeasure
	m.ShelfLifeDays = p.ShelfLifeDays
	m.IsPerishable = p.IsPerishable
}

// ProductModelFromDomain creates a new persistence model from a domain Product entity.
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{}
	m.FromDomain(p)
	return m
}

// BatchModel is the persistence model for the Batch aggregate root.
type BatchModel struct {
	AggregateModel
	ProductID             uuid.UUID           `gorm:"type:uuid;not null;uniqueIndex:idx_batch_product_number,priority:1;index:idx_batch_product_status,priority:1"`
	BatchNumber           string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_batch_product_number,priority:2"`
	ProductionDate        time.Time           `gorm:"type:date;not null"`
	ExpirationDate        time.Time           `gorm:"type:date;not null;index"`
	InitialQuantity       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	CurrentQuantity       decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status                catalog.BatchStatus `gorm:"type:varchar(20);not null;default:'received';index:idx_batch_product_status,priority:2"`
	ManufacturingLocation string              `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch entity.
func (m *BatchModel) ToDomain() *catalog.Batch {
	return &catalog.Batch{
		BaseAggregateRoot:     m.ToDomainAggregateRoot(),
		ProductID:             m.ProductID,
		BatchNumber:           m.BatchNumber,
		ProductionDate:        m.ProductionDate.UTC(),
		ExpirationDate:        m.ExpirationDate.UTC(),
		InitialQuantity:       m.InitialQuantity,
		CurrentQuantity:       m.CurrentQuantity,
		Status:                m.Status,
		ManufacturingLocation: m.ManufacturingLocation,
	}
}

// FromDomain populates the persistence model from a domain Batch entity.
func (m *BatchModel) FromDomain(b *catalog.Batch) {
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	m.ProductID = b.ProductID
	m.BatchNumber = b.BatchNumber
	m.ProductionDate = b.ProductionDate
	m.ExpirationDate = b.ExpirationDate
	m.InitialQuantity = b.InitialQuantity
	m.CurrentQuantity = b.CurrentQuantity
	m.Status = b.Status
	m.ManufacturingLocation = b.ManufacturingLocation
}

// BatchModelFromDomain creates a new persistence model from a domain Batch entity.
func BatchModelFromDomain(b *catalog.Batch) *BatchModel {
	m := &BatchModel{}
	m.FromDomain(b)
	return m
}
