package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest un renglón de venta.
type SaleLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	BatchID   string          `json:"batch_id,omitempty" validate:"omitempty,uuid4"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada para registrar una venta de mostrador.
type CreateSaleRequest struct {
	WarehouseID  string            `json:"warehouse_id" validate:"required,uuid4"`
	CustomerName string            `json:"customer_name" validate:"omitempty,max=200"`
	Lines        []SaleLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// SaleLineResponse renglón de venta.
type SaleLineResponse struct {
	ProductID string          `json:"product_id"`
	BatchID   *string         `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID           string             `json:"id"`
	CompanyID    string             `json:"company_id"`
	WarehouseID  string             `json:"warehouse_id"`
	CustomerName string             `json:"customer_name,omitempty"`
	Total        decimal.Decimal    `json:"total"`
	CreatedAt    time.Time          `json:"created_at"`
	Lines        []SaleLineResponse `json:"lines"`
}
