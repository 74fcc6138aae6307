package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeENTRY       = "ENTRY"       // entrada a bodega (compra, producción)
	MovementTypeEXIT        = "EXIT"        // salida de bodega (venta directa, baja)
	MovementTypeTRANSFER    = "TRANSFER"    // traslado entre bodegas
	MovementTypeADJUSTMENT  = "ADJUSTMENT"  // ajuste de inventario
	MovementTypeRESERVATION = "RESERVATION" // reserva para ruta/venta
	MovementTypeDISPATCH    = "DISPATCH"    // despacho de stock reservado
	MovementTypeRETURN      = "RETURN"      // devolución / liberación de reserva
)

// ValidMovementType reporta si t es uno de los tipos de movimiento conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeENTRY, MovementTypeEXIT, MovementTypeTRANSFER,
		MovementTypeADJUSTMENT, MovementTypeRESERVATION, MovementTypeDISPATCH,
		MovementTypeRETURN:
		return true
	}
	return false
}

// StockMovement es una fila del ledger de inventario: registro inmutable de un
// cambio de cantidad. Toda mutación de Stock genera exactamente un movimiento
// con la misma cantidad y el tipo de la operación.
type StockMovement struct {
	ID                     string
	ProductID              string
	OriginWarehouseID      *string // nil en entradas
	DestinationWarehouseID *string // nil en salidas
	BatchID                *string // lote asociado, si aplica
	Type                   string
	Quantity               decimal.Decimal // siempre > 0; el tipo indica el sentido
	UnitType               string
	ReferenceNumber        *string // factura, orden, código de ruta, etc.
	Notes                  *string
	CreatedBy              string
	CreatedAt              time.Time
}
