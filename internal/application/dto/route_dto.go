package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RouteLineRequest un producto a cargar en la ruta.
type RouteLineRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid4"`
	BatchID   string          `json:"batch_id,omitempty" validate:"omitempty,uuid4"`
	Quantity  decimal.Decimal `json:"quantity" validate:"required"`
}

// CreateRouteRequest entrada para planear una ruta (reserva el stock de cada línea).
type CreateRouteRequest struct {
	Code        string             `json:"code" validate:"required,max=60"`
	WarehouseID string             `json:"warehouse_id" validate:"required,uuid4"`
	DriverID    string             `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
	VehicleID   string             `json:"vehicle_id,omitempty" validate:"omitempty,uuid4"`
	ScheduledAt time.Time          `json:"scheduled_at"`
	Lines       []RouteLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// RouteLineResponse línea de ruta.
type RouteLineResponse struct {
	ProductID string          `json:"product_id"`
	BatchID   *string         `json:"batch_id,omitempty"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitType  string          `json:"unit_type"`
}

// RouteResponse salida de una ruta.
type RouteResponse struct {
	ID          string              `json:"id"`
	CompanyID   string              `json:"company_id"`
	Code        string              `json:"code"`
	WarehouseID string              `json:"warehouse_id"`
	DriverID    *string             `json:"driver_id,omitempty"`
	VehicleID   *string             `json:"vehicle_id,omitempty"`
	Status      string              `json:"status"`
	ScheduledAt time.Time           `json:"scheduled_at"`
	CreatedAt   time.Time           `json:"created_at"`
	Lines       []RouteLineResponse `json:"lines"`
}
