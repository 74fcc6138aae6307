package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con sus renglones.
func (r *SaleRepo) Create(ctx context.Context, sale *entity.Sale) error {
	query := `
		INSERT INTO sales (id, company_id, warehouse_id, customer_name, total, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		sale.ID, sale.CompanyID, sale.WarehouseID, sale.CustomerName, sale.Total,
		sale.CreatedBy, sale.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("crear venta: %w", err)
	}
	for _, line := range sale.Lines {
		lineQuery := `
			INSERT INTO sale_lines (sale_id, product_id, batch_id, quantity, unit_price, subtotal)
			VALUES ($1, $2, $3, $4, $5, $6)`
		_, err := r.q.Exec(ctx, lineQuery,
			sale.ID, line.ProductID, line.BatchID, line.Quantity, line.UnitPrice, line.Subtotal,
		)
		if err != nil {
			return fmt.Errorf("crear renglón de venta: %w", err)
		}
	}
	return nil
}

// GetByID devuelve la venta con renglones, o nil si no existe.
func (r *SaleRepo) GetByID(ctx context.Context, id string) (*entity.Sale, error) {
	query := `
		SELECT id, company_id, warehouse_id, customer_name, total, created_by, created_at
		FROM sales WHERE id = $1`
	var s entity.Sale
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.CompanyID, &s.WarehouseID, &s.CustomerName, &s.Total, &s.CreatedBy, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get venta: %w", err)
	}

	lineQuery := `
		SELECT sale_id, product_id, batch_id, quantity, unit_price, subtotal
		FROM sale_lines WHERE sale_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, lineQuery, id)
	if err != nil {
		return nil, fmt.Errorf("list renglones de venta: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.SaleID, &l.ProductID, &l.BatchID, &l.Quantity, &l.UnitPrice, &l.Subtotal); err != nil {
			return nil, fmt.Errorf("scan renglón de venta: %w", err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate renglones de venta: %w", err)
	}
	return &s, nil
}

// List devuelve ventas de una empresa, más recientes primero, sin renglones.
func (r *SaleRepo) List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	query := `
		SELECT id, company_id, warehouse_id, customer_name, total, created_by, created_at
		FROM sales WHERE company_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ventas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Sale
	for rows.Next() {
		var s entity.Sale
		if err := rows.Scan(&s.ID, &s.CompanyID, &s.WarehouseID, &s.CustomerName, &s.Total, &s.CreatedBy, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan venta: %w", err)
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ventas: %w", err)
	}
	return out, nil
}
