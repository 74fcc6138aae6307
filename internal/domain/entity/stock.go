package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Stock representa el saldo actual de un producto en una bodega.
// Available es la cantidad libre para reservar o despachar; Reserved es la cantidad
// comprometida a rutas/ventas pendientes que aún no sale de la bodega.
// Invariante: Available >= 0 y Reserved >= 0 en todo momento.
type Stock struct {
	ProductID   string
	WarehouseID string
	Available   decimal.Decimal
	Reserved    decimal.Decimal
	UnitType    string // debe coincidir con la unidad declarada del producto
	UpdatedAt   time.Time
	UpdatedBy   string // UserID de la última mutación
}

// OnHand devuelve el total físico en bodega (disponible + reservado).
func (s *Stock) OnHand() decimal.Decimal {
	return s.Available.Add(s.Reserved)
}

// CanReserve indica si hay disponible suficiente para reservar qty.
func (s *Stock) CanReserve(qty decimal.Decimal) bool {
	return s.Available.GreaterThanOrEqual(qty)
}
