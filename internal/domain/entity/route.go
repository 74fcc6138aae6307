package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una ruta de reparto.
const (
	RouteStatusPlanned    = "PLANNED"    // creada, stock reservado
	RouteStatusDispatched = "DISPATCHED" // en reparto, stock despachado
	RouteStatusCompleted  = "COMPLETED"
	RouteStatusCancelled  = "CANCELLED" // reservas liberadas
)

// Route representa una ruta de reparto que compromete stock de una bodega:
// al planearla se reserva, al salir se despacha y al cancelarla se libera.
type Route struct {
	ID          string
	CompanyID   string
	Code        string // ej: "RUTA-2026-0042", referencia en el ledger
	WarehouseID string // bodega de origen
	DriverID    *string
	VehicleID   *string
	Status      string
	ScheduledAt time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Lines       []RouteLine
}

// RouteLine es un producto cargado en la ruta.
type RouteLine struct {
	RouteID   string
	ProductID string
	BatchID   *string
	Quantity  decimal.Decimal
	UnitType  string
}
