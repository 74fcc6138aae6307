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

var _ repository.VehicleRepository = (*VehicleRepo)(nil)

const vehicleColumns = `id, company_id, license_plate, vehicle_type, brand, model, year,
	weight_capacity, status, driver_id, notes, created_at, updated_at`

// VehicleRepo implementación de VehicleRepository sobre PostgreSQL.
type VehicleRepo struct {
	q Querier
}

// NewVehicleRepository construye el adaptador de vehículos.
func NewVehicleRepository(q Querier) *VehicleRepo {
	return &VehicleRepo{q: q}
}

// Create inserta un vehículo; placa duplicada en la empresa devuelve ErrDuplicate.
func (r *VehicleRepo) Create(ctx context.Context, v *entity.Vehicle) error {
	query := `
		INSERT INTO vehicles (` + vehicleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		v.ID, v.CompanyID, v.LicensePlate, v.VehicleType, v.Brand, v.Model, v.Year,
		v.WeightCapacity, v.Status, v.DriverID, v.Notes, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear vehículo: %w", err)
	}
	return nil
}

// GetByID devuelve un vehículo o nil si no existe.
func (r *VehicleRepo) GetByID(ctx context.Context, id string) (*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id = $1`
	v, err := scanVehicle(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehículo: %w", err)
	}
	return v, nil
}

// List devuelve los vehículos de una empresa, paginados.
func (r *VehicleRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + `
		FROM vehicles WHERE company_id = $1
		ORDER BY license_plate LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list vehículos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vehículo: %w", err)
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vehículos: %w", err)
	}
	return out, nil
}

// UpdateStatus cambia el estado del vehículo.
func (r *VehicleRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE vehicles SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update estado vehículo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanVehicle(row pgx.Row) (*entity.Vehicle, error) {
	var v entity.Vehicle
	err := row.Scan(&v.ID, &v.CompanyID, &v.LicensePlate, &v.VehicleType, &v.Brand, &v.Model, &v.Year,
		&v.WeightCapacity, &v.Status, &v.DriverID, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
