package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// StockRepository define el puerto para consultar/actualizar saldos por producto+bodega.
// Las mutaciones solo se hacen dentro de transacciones (vía TxRunner).
type StockRepository interface {
	// Get devuelve el saldo o nil si no existe fila para el par.
	Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// GetForUpdate bloquea la fila (SELECT FOR UPDATE) y la devuelve; nil si no existe.
	GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error)
	// Upsert inserta o actualiza el saldo del par (producto, bodega).
	Upsert(ctx context.Context, stock *entity.Stock) error
	ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error)
	ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error)
}
