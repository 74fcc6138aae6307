package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest entrada para registrar un lote.
type CreateBatchRequest struct {
	ProductID        string          `json:"product_id" validate:"required,uuid4"`
	WarehouseID      string          `json:"warehouse_id" validate:"required,uuid4"`
	BatchNumber      string          `json:"batch_number" validate:"required,max=60"`
	ManufacturedDate *time.Time      `json:"manufactured_date,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	Quantity         decimal.Decimal `json:"quantity" validate:"required"`
	UnitType         string          `json:"unit_type" validate:"omitempty,max=20"`
	Notes            string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateBatchStatusRequest entrada para cambiar el estado de un lote.
type UpdateBatchStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=AVAILABLE RESERVED IN_TRANSIT EXPIRED QUARANTINE DAMAGED"`
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	WarehouseID      string          `json:"warehouse_id"`
	BatchNumber      string          `json:"batch_number"`
	ManufacturedDate *time.Time      `json:"manufactured_date,omitempty"`
	ExpiryDate       *time.Time      `json:"expiry_date,omitempty"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitType         string          `json:"unit_type"`
	Status           string          `json:"status"`
	Notes            string          `json:"notes,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// BatchReconciliationResponse conciliación lotes vs saldo agregado de un par
/// (producto, bodega): la suma de lotes no terminales no debería superar el total en bodega.
type BatchReconciliationResponse struct {
	ProductID     string          `json:"product_id"`
	WarehouseID   string          `json:"warehouse_id"`
	BatchTotal    decimal.Decimal `json:"batch_total"`
	BalanceOnHand decimal.Decimal `json:"balance_on_hand"`
	Consistent    bool            `json:"consistent"`
}
