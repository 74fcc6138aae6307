package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación del ledger de movimientos sobre PostgreSQL.
// Solo inserta y lee: los movimientos nunca se modifican ni borran.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador del ledger. Pasar pool o tx.
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

const movementColumns = `id, product_id, origin_warehouse_id, destination_warehouse_id, batch_id,
	movement_type, quantity, unit_type, reference_number, notes, created_by, created_at`

// Create inserta un movimiento en el ledger.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements
			(id, product_id, origin_warehouse_id, destination_warehouse_id, batch_id,
			 movement_type, quantity, unit_type, reference_number, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.ProductID, m.OriginWarehouseID, m.DestinationWarehouseID, m.BatchID,
		m.Type, m.Quantity, m.UnitType, m.ReferenceNumber, m.Notes, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("crear movimiento: %w", err)
	}
	return nil
}

// ListByProduct devuelve los movimientos de un producto, más recientes primero.
func (r *StockMovementRepo) ListByProduct(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE product_id = $1
		ORDER BY created_at DESC
		LIMIT $2`
	rows, err := r.q.Query(ctx, query, productID, limit)
	if err != nil {
		return nil, fmt.Errorf("list movimientos por producto: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByWarehouse devuelve movimientos que tocan una bodega (origen o destino),
// con filtro opcional por rango de fechas.
func (r *StockMovementRepo) ListByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE (origin_warehouse_id = $1 OR destination_warehouse_id = $1)`
	args := []any{warehouseID}
	if from != nil {
		args = append(args, *from)
		query += ` AND created_at >= $` + strconv.Itoa(len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += ` AND created_at <= $` + strconv.Itoa(len(args))
	}
	args = append(args, limit)
	query += ` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))
	args = append(args, offset)
	query += ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movimientos por bodega: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		err := rows.Scan(
			&m.ID, &m.ProductID, &m.OriginWarehouseID, &m.DestinationWarehouseID, &m.BatchID,
			&m.Type, &m.Quantity, &m.UnitType, &m.ReferenceNumber, &m.Notes, &m.CreatedBy, &m.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan movimiento: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movimientos: %w", err)
	}
	return out, nil
}
