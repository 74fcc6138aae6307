package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// ReserveStockRequest body para POST /api/stock/reserve.
type ReserveStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid4"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Reference   string          `json:"reference,omitempty" validate:"omitempty,max=100"`
}

// ReleaseStockRequest body para POST /api/stock/release.
type ReleaseStockRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid4"`
	WarehouseID string          `json:"warehouse_id" validate:"required,uuid4"`
	Quantity    decimal.Decimal `json:"quantity" validate:"required"`
	Reference   string          `json:"reference,omitempty" validate:"omitempty,max=100"`
}

// CreateStockMovementRequest body para POST /api/stock/movements/entry y .../exit.
type CreateStockMovementRequest struct {
	ProductID              string          `json:"product_id" validate:"required,uuid4"`
	OriginWarehouseID      string          `json:"origin_warehouse_id,omitempty" validate:"omitempty,uuid4"`
	DestinationWarehouseID string          `json:"destination_warehouse_id,omitempty" validate:"omitempty,uuid4"`
	BatchID                string          `json:"batch_id,omitempty" validate:"omitempty,uuid4"`
	MovementType           string          `json:"movement_type,omitempty"`
	Quantity               decimal.Decimal `json:"quantity" validate:"required"`
	UnitType               string          `json:"unit_type,omitempty" validate:"omitempty,max=20"`
	ReferenceNumber        string          `json:"reference_number,omitempty" validate:"omitempty,max=100"`
	Notes                  string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// StockResponse saldo de un producto en una bodega.
type StockResponse struct {
	ProductID   string          `json:"product_id"`
	WarehouseID string          `json:"warehouse_id"`
	Available   decimal.Decimal `json:"quantity_available"`
	Reserved    decimal.Decimal `json:"quantity_reserved"`
	UnitType    string          `json:"unit_type"`
	UpdatedAt   time.Time       `json:"last_updated"`
	UpdatedBy   string          `json:"updated_by,omitempty"`
}

// AvailabilityResponse resultado de GET /api/stock/check-availability.
type AvailabilityResponse struct {
	Available         bool            `json:"available"`
	ProductID         string          `json:"product_id"`
	WarehouseID       string          `json:"warehouse_id"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity"`
}

// StockMovementResponse una fila del ledger.
type StockMovementResponse struct {
	ID                     string          `json:"id"`
	ProductID              string          `json:"product_id"`
	OriginWarehouseID      *string         `json:"origin_warehouse_id,omitempty"`
	DestinationWarehouseID *string         `json:"destination_warehouse_id,omitempty"`
	BatchID                *string         `json:"batch_id,omitempty"`
	MovementType           string          `json:"movement_type"`
	Quantity               decimal.Decimal `json:"quantity"`
	UnitType               string          `json:"unit_type"`
	ReferenceNumber        *string         `json:"reference_number,omitempty"`
	Notes                  *string         `json:"notes,omitempty"`
	CreatedBy              string          `json:"created_by"`
	CreatedAt              time.Time       `json:"created_at"`
}

// ToStockResponse mapea la entidad a su representación HTTP.
func ToStockResponse(s *entity.Stock) StockResponse {
	return StockResponse{
		ProductID:   s.ProductID,
		WarehouseID: s.WarehouseID,
		Available:   s.Available,
		Reserved:    s.Reserved,
		UnitType:    s.UnitType,
		UpdatedAt:   s.UpdatedAt,
		UpdatedBy:   s.UpdatedBy,
	}
}

// ToMovementResponse mapea un movimiento del ledger a su representación HTTP.
func ToMovementResponse(m *entity.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:                     m.ID,
		ProductID:              m.ProductID,
		OriginWarehouseID:      m.OriginWarehouseID,
		DestinationWarehouseID: m.DestinationWarehouseID,
		BatchID:                m.BatchID,
		MovementType:           m.Type,
		Quantity:               m.Quantity,
		UnitType:               m.UnitType,
		ReferenceNumber:        m.ReferenceNumber,
		Notes:                  m.Notes,
		CreatedBy:              m.CreatedBy,
		CreatedAt:              m.CreatedAt,
	}
}
