package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// BatchRepository define el puerto de persistencia para lotes de producto.
type BatchRepository interface {
	Create(ctx context.Context, batch *entity.ProductBatch) error
	GetByID(ctx context.Context, id string) (*entity.ProductBatch, error)
	ListByProduct(ctx context.Context, productID, warehouseID string) ([]*entity.ProductBatch, error)
	UpdateStatus(ctx context.Context, id, status string) error
	// ExpireDue marca EXPIRED los lotes AVAILABLE con vencimiento anterior a now.
	// Devuelve cuántos lotes cambiaron.
	ExpireDue(ctx context.Context, now time.Time) (int64, error)
	// SumQuantities suma las cantidades de lotes no terminales de un par
	// (producto, bodega), para conciliar contra el saldo agregado.
	SumQuantities(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error)
}
