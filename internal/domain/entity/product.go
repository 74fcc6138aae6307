package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo (multi-bodega).
// El stock por bodega vive en Stock; aquí solo la definición del producto.
type Product struct {
	ID          string
	CompanyID   string
	SKU         string // código único por empresa
	Name        string
	Description string
	Price       decimal.Decimal
	UnitType    string // unidad declarada (kg, L, caja...); los movimientos deben coincidir
	StorageType string // ambient, refrigerated, frozen, controlled
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
