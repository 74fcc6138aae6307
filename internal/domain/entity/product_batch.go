package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de producto.
const (
	BatchStatusAvailable  = "AVAILABLE"
	BatchStatusReserved   = "RESERVED"
	BatchStatusInTransit  = "IN_TRANSIT"
	BatchStatusExpired    = "EXPIRED"
	BatchStatusQuarantine = "QUARANTINE"
	BatchStatusDamaged    = "DAMAGED"
)

// ProductBatch representa un lote de producto para trazabilidad
// (número de lote, fechas de fabricación y vencimiento, cantidad y estado).
type ProductBatch struct {
	ID               string
	ProductID        string
	WarehouseID      string
	BatchNumber      string // ej: "LOT-2026-001"
	ManufacturedDate *time.Time
	ExpiryDate       *time.Time
	Quantity         decimal.Decimal
	UnitType         string
	Status           string
	Notes            string
	CreatedAt        time.Time
}

// Expired indica si el lote está vencido respecto a now.
func (b *ProductBatch) Expired(now time.Time) bool {
	return b.ExpiryDate != nil && b.ExpiryDate.Before(now)
}

// CanTransition valida las transiciones de estado permitidas para un lote.
// EXPIRED y DAMAGED son terminales salvo paso por cuarentena.
func (b *ProductBatch) CanTransition(to string) bool {
	switch b.Status {
	case BatchStatusAvailable:
		return to == BatchStatusReserved || to == BatchStatusInTransit ||
			to == BatchStatusExpired || to == BatchStatusQuarantine || to == BatchStatusDamaged
	case BatchStatusReserved:
		return to == BatchStatusAvailable || to == BatchStatusInTransit
	case BatchStatusInTransit:
		return to == BatchStatusAvailable || to == BatchStatusDamaged
	case BatchStatusQuarantine:
		return to == BatchStatusAvailable || to == BatchStatusDamaged || to == BatchStatusExpired
	}
	return false
}
