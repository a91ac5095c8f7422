package catalog

import (
	"strings"
	"time"

	"github.com/freshchain/scms/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Product is an immutable catalog entry. Only classification details can be
// filled in after creation; identity, reference price and shelf life never change.
type Product struct {
	shared.BaseAggregateRoot
	SKU           string
	UPC           string
	Name          string
	Category      string
	Brand         string
	MRP           decimal.Decimal // reference price every discount is computed from
	UnitOfMeasure string
	ShelfLifeDays int
	IsPerishable  bool
}

// NewProduct creates a new product
func NewProduct(sku, name string, mrp decimal.Decimal, unit string, shelfLifeDays int) (*Product, error) {
	sku = strings.ToUpper(strings.TrimSpace(sku))
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if mrp.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Reference price cannot be negative")
	}
	if shelfLifeDays < 0 {
		return nil, shared.NewDomainError("INVALID_SHELF_LIFE", "Shelf life cannot be negative")
	}
	if unit == "" {
		unit = "pcs"
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               sku,
		Name:              strings.TrimSpace(name),
		MRP:               mrp,
		UnitOfMeasure:     unit,
		ShelfLifeDays:     shelfLifeDays,
		IsPerishable:      shelfLifeDays > 0,
	}, nil
}

// SetClassification sets category and brand
func (p *Product) SetClassification(category, brand string) {
	p.Category = category
	p.Brand = brand
	p.UpdatedAt = time.Now()
}

// SetUPC sets the product's UPC barcode
func (p *Product) SetUPC(upc string) error {
	if len(upc) > 20 {
		return shared.NewDomainError("INVALID_UPC", "UPC cannot exceed 20 characters")
	}
	p.UPC = upc
	p.UpdatedAt = time.Now()
	return nil
}

// SetPerishable overrides the perishability derived from shelf life
func (p *Product) SetPerishable(perishable bool) {
	p.IsPerishable = perishable
	p.UpdatedAt = time.Now()
}

// DefaultExpiry returns productionDate plus the shelf life
func (p *Product) DefaultExpiry(productionDate time.Time) time.Time {
	return shared.DateOf(productionDate).AddDate(0, 0, p.ShelfLifeDays)
}
