package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

var _ repository.BatchRepository = (*BatchRepo)(nil)

// BatchRepo implementación de BatchRepository sobre PostgreSQL.
type BatchRepo struct {
	q Querier
}

// NewBatchRepository construye el adaptador de lotes.
func NewBatchRepository(q Querier) *BatchRepo {
	return &BatchRepo{q: q}
}

const batchColumns = `id, product_id, warehouse_id, batch_number, manufactured_date, expiry_date,
	quantity, unit_type, status, notes, created_at`

// Create inserta un lote. Número de lote duplicado -> ErrDuplicate.
func (r *BatchRepo) Create(ctx context.Context, b *entity.ProductBatch) error {
	query := `
		INSERT INTO product_batches
			(id, product_id, warehouse_id, batch_number, manufactured_date, expiry_date,
			 quantity, unit_type, status, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.ProductID, b.WarehouseID, b.BatchNumber, b.ManufacturedDate, b.ExpiryDate,
		b.Quantity, b.UnitType, b.Status, b.Notes, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("crear lote: %w", err)
	}
	return nil
}

// GetByID devuelve un lote o nil si no existe.
func (r *BatchRepo) GetByID(ctx context.Context, id string) (*entity.ProductBatch, error) {
	query := `SELECT ` + batchColumns + ` FROM product_batches WHERE id = $1`
	b, err := scanBatch(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lote: %w", err)
	}
	return b, nil
}

// ListByProduct devuelve los lotes de un producto en una bodega.
func (r *BatchRepo) ListByProduct(ctx context.Context, productID, warehouseID string) ([]*entity.ProductBatch, error) {
	query := `
		SELECT ` + batchColumns + `
		FROM product_batches
		WHERE product_id = $1 AND warehouse_id = $2
		ORDER BY expiry_date NULLS LAST, batch_number`
	rows, err := r.q.Query(ctx, query, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list lotes: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProductBatch
	for rows.Next() {
		b, err := scanBatch(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lote: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lotes: %w", err)
	}
	return out, nil
}

// UpdateStatus cambia el estado de un lote.
func (r *BatchRepo) UpdateStatus(ctx context.Context, id, status string) error {
	query := `UPDATE product_batches SET status = $2 WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update estado de lote: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ExpireDue marca EXPIRED los lotes AVAILABLE vencidos antes de now.
func (r *BatchRepo) ExpireDue(ctx context.Context, now time.Time) (int64, error) {
	query := `
		UPDATE product_batches
		SET status = $1
		WHERE status = $2 AND expiry_date IS NOT NULL AND expiry_date < $3`
	tag, err := r.q.Exec(ctx, query, entity.BatchStatusExpired, entity.BatchStatusAvailable, now)
	if err != nil {
		return 0, fmt.Errorf("expirar lotes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// SumQuantities suma las cantidades de lotes no terminales del par (producto, bodega).
func (r *BatchRepo) SumQuantities(ctx context.Context, productID, warehouseID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM product_batches
		WHERE product_id = $1 AND warehouse_id = $2
		  AND status NOT IN ($3, $4)`
	var sum decimal.Decimal
	err := r.q.QueryRow(ctx, query, productID, warehouseID,
		entity.BatchStatusExpired, entity.BatchStatusDamaged).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sumar lotes: %w", err)
	}
	return sum, nil
}

func scanBatch(row pgx.Row) (*entity.ProductBatch, error) {
	var b entity.ProductBatch
	var notes *string
	err := row.Scan(
		&b.ID, &b.ProductID, &b.WarehouseID, &b.BatchNumber, &b.ManufacturedDate, &b.ExpiryDate,
		&b.Quantity, &b.UnitType, &b.Status, &notes, &b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if notes != nil {
		b.Notes = *notes
	}
	return &b, nil
}
