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

var _ repository.DriverRepository = (*DriverRepo)(nil)

const driverColumns = `id, company_id, name, license_number, license_type, license_expiry,
	years_experience, status, notes, created_at, updated_at`

// DriverRepo implementación de DriverRepository sobre PostgreSQL.
type DriverRepo struct {
	q Querier
}

// NewDriverRepository construye el adaptador de conductores.
func NewDriverRepository(q Querier) *DriverRepo {
	return &DriverRepo{q: q}
}

// Create inserta un conductor; licencia duplicada en la empresa devuelve ErrDuplicate.
func (r *DriverRepo) Create(ctx context.Context, d *entity.Driver) error {
	query := `
		INSERT INTO drivers (` + driverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		d.ID, d.CompanyID, d.Name, d.LicenseNumber, d.LicenseType, d.LicenseExpiry,
		d.YearsExperience, d.Status, d.Notes, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear conductor: %w", err)
	}
	return nil
}

// GetByID devuelve un conductor o nil si no existe.
func (r *DriverRepo) GetByID(ctx context.Context, id string) (*entity.Driver, error) {
	query := `SELECT ` + driverColumns + ` FROM drivers WHERE id = $1`
	d, err := scanDriver(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conductor: %w", err)
	}
	return d, nil
}

// List devuelve los conductores de una empresa, paginados.
func (r *DriverRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Driver, error) {
	query := `SELECT ` + driverColumns + `
		FROM drivers WHERE company_id = $1
		ORDER BY name LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list conductores: %w", err)
	}
	defer rows.Close()

	var out []*entity.Driver
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conductor: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conductores: %w", err)
	}
	return out, nil
}

// UpdateStatus cambia el estado del conductor.
func (r *DriverRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.q.Exec(ctx, `UPDATE drivers SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("update estado conductor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDriver(row pgx.Row) (*entity.Driver, error) {
	var d entity.Driver
	err := row.Scan(&d.ID, &d.CompanyID, &d.Name, &d.LicenseNumber, &d.LicenseType, &d.LicenseExpiry,
		&d.YearsExperience, &d.Status, &d.Notes, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
