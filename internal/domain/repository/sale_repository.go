package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	// Create persiste la venta con sus renglones (misma transacción que el stock).
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string) (*entity.Sale, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error)
}
