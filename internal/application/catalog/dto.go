package catalog

import (
	"time"

	"github.com/freshchain/scms/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID            uuid.UUID       `json:"id"`
	SKU           string          `json:"sku"`
	UPC           string          `json:"upc,omitempty"`
	Name          string          `json:"name"`
	Category      string          `json:"category,omitempty"`
	Brand         string          `json:"brand,omitempty"`
	MRP           decimal.Decimal `json:"mrp"`
	UnitOfMeasure string          `json:"unit_of_measure"`
	ShelfLifeDays int             `json:"shelf_life_days"`
	IsPerishable  bool            `json:"is_perishable"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID                    uuid.UUID       `json:"id"`
	ProductID             uuid.UUID       `json:"product_id"`
	BatchNumber           string          `json:"batch_number"`
	ProductionDate        time.Time       `json:"production_date"`
	ExpirationDate        time.Time       `json:"expiration_date"`
	DaysUntilExpiry       int             `json:"days_until_expiry"`
	InitialQuantity       decimal.Decimal `json:"initial_quantity"`
	CurrentQuantity       decimal.Decimal `json:"current_quantity"`
	Status                string          `json:"status"`
	ManufacturingLocation string          `json:"manufacturing_location,omitempty"`
}

// ProductListFilter represents filter options for product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		UPC:           p.UPC,
		Name:          p.Name,
		Category:      p.Category,
		Brand:         p.Brand,
		MRP:           p.MRP,
		UnitOfMeasure: p.UnitOfMeasure,
		ShelfLifeDays: p.ShelfLifeDays,
		IsPerishable:  p.IsPerishable,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

// ToBatchResponse converts a domain Batch to BatchResponse
func ToBatchResponse(b *catalog.Batch, today time.Time) BatchResponse {
	return BatchResponse{
		ID:                    b.ID,
		ProductID:             b.ProductID,
		BatchNumber:           b.BatchNumber,
		ProductionDate:        b.ProductionDate,
		ExpirationDate:        b.ExpirationDate,
		DaysUntilExpiry:       b.DaysUntilExpiry(today),
		InitialQuantity:       b.InitialQuantity,
		CurrentQuantity:       b.CurrentQuantity,
		Status:                string(b.Status),
		ManufacturingLocation: b.ManufacturingLocation,
	}
}

// ToBatchResponses converts a slice of batches
func ToBatchResponses(batches []catalog.Batch, today time.Time) []BatchResponse {
	responses := make([]BatchResponse, len(batches))
	for i := range batches {
		responses[i] = ToBatchResponse(&batches[i], today)
	}
	return responses
}
