package repository

import (
	"context"
	"time"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del ledger de movimientos.
// Los movimientos son inmutables: solo Create y lecturas.
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	// ListByProduct devuelve movimientos de un producto, created_at DESC, hasta limit.
	ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error)
	ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
