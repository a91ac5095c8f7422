package inventory

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationRequest asks for a quantity of one product
type AllocationRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required,gt=0"`
	Method    string          `json:"method" binding:"omitempty,oneof=fifo fefo"`
	Location  string          `json:"location" binding:"omitempty,max=100"`
}
