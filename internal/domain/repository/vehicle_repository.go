package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// VehicleRepository define el puerto de persistencia para vehículos.
type VehicleRepository interface {
	Create(ctx context.Context, vehicle *entity.Vehicle) error
	GetByID(ctx context.Context, id string) (*entity.Vehicle, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
