package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// RouteRepository define el puerto de persistencia para rutas de reparto.
type RouteRepository interface {
	// Create persiste la ruta con sus líneas.
	Create(ctx context.Context, route *entity.Route) error
	// GetByID devuelve la ruta con líneas cargadas, o nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Route, error)
	UpdateStatus(ctx context.Context, id, status string) error
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Route, error)
}
