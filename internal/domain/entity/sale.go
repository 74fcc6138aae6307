package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale representa una venta de mostrador: descuenta stock disponible (EXIT)
// de la bodega en la misma transacción en que se persiste la venta.
type Sale struct {
	ID           string
	CompanyID    string
	WarehouseID  string
	CustomerName string
	Total        decimal.Decimal
	CreatedBy    string
	CreatedAt    time.Time
	Lines        []SaleLine
}

// SaleLine es un renglón de la venta.
type SaleLine struct {
	SaleID    string
	ProductID string
	BatchID   *string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}
