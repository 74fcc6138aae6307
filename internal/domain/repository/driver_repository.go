package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// DriverRepository define el puerto de persistencia para conductores.
type DriverRepository interface {
	Create(ctx context.Context, driver *entity.Driver) error
	GetByID(ctx context.Context, id string) (*entity.Driver, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Driver, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
