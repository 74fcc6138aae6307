package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

var _ repository.RouteRepository = (*RouteRepo)(nil)

// RouteRepo implementación de RouteRepository sobre PostgreSQL.
type RouteRepo struct {
	q Querier
}

// NewRouteRepository construye el adaptador de rutas.
func NewRouteRepository(q Querier) *RouteRepo {
	return &RouteRepo{q: q}
}

const routeColumns = `id, company_id, code, warehouse_id, driver_id, vehicle_id, status,
	scheduled_at, created_by, created_at, updated_at`

// Create persiste la ruta y sus líneas. Código duplicado -> ErrDuplicate.
func (r *RouteRepo) Create(ctx context.Context, route *entity.Route) error {
	query := `
		INSERT INTO routes (id, company_id, code, warehouse_id, driver_id, vehicle_id, status,
			scheduled_at, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		route.ID, route.CompanyID, route.Code, route.WarehouseID, route.DriverID, route.VehicleID,
		route.Status, route.ScheduledAt, route.CreatedBy, route.CreatedAt, route.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear ruta: %w", err)
	}
	for _, line := range route.Lines {
		lineQuery := `
			INSERT INTO route_lines (route_id, product_id, batch_id, quantity, unit_type)
			VALUES ($1, $2, $3, $4, $5)`
		_, err := r.q.Exec(ctx, lineQuery,
			route.ID, line.ProductID, line.BatchID, line.Quantity, line.UnitType,
		)
		if err != nil {
			return fmt.Errorf("crear línea de ruta: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la ruta con líneas, o nil si no existe.
func (r *RouteRepo) GetByID(ctx context.Context, id string) (*entity.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes WHERE id = $1`
	route, err := scanRoute(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get ruta: %w", err)
	}

	lineQuery := `
		SELECT route_id, product_id, batch_id, quantity, unit_type
		FROM route_lines WHERE route_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list líneas de ruta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.RouteLine
		if err := rows.Scan(&l.RouteID, &l.ProductID, &l.BatchID, &l.Quantity, &l.UnitType); err != nil {
			return nil, fmt.Errorf("scan línea de ruta: %w", err)
		}
		route.Lines = append(route.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate líneas de ruta: %w", err)
	}
	return route, nil
}

// UpdateStatus cambia el estado de la ruta.
func (r *RouteRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE routes SET status = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update estado de ruta: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List devuelve rutas de una empresa, más recientes primero, sin líneas.
func (r *RouteRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Route, error) {
	query := `
		SELECT ` + routeColumns + `
		FROM routes WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list rutas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Route
	for rows.Next() {
		route, err := scanRoute(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ruta: %w", err)
		}
		out = append(out, route)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rutas: %w", err)
	}
	return out, nil
}

func scanRoute(row pgx.Row) (*entity.Route, error) {
	var route entity.Route
	err := row.Scan(
		&route.ID, &route.CompanyID, &route.Code, &route.WarehouseID, &route.DriverID,
		&route.VehicleID, &route.Status, &route.ScheduledAt, &route.CreatedBy,
		&route.CreatedAt, &route.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &route, nil
}
