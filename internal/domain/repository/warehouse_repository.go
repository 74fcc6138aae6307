package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// WarehouseRepository define el puerto de persistencia para bodegas.
type WarehouseRepository interface {
	Create(ctx context.Context, warehouse *entity.Warehouse) error
	GetByID(ctx context.Context, id string) (*entity.Warehouse, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Warehouse, error)
	Update(ctx context.Context, warehouse *entity.Warehouse) error
}
