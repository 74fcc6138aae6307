package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `product_id, warehouse_id, quantity_available, quantity_reserved, unit_type, last_updated, updated_by`

// Get obtiene el saldo de un producto en una bodega, o nil si no existe fila.
func (r *StockRepo) Get(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return s, nil
}

// GetForUpdate obtiene el saldo y bloquea la fila (SELECT FOR UPDATE); nil si no existe.
// Las escrituras concurrentes sobre el mismo par quedan serializadas por este lock.
func (r *StockRepo) GetForUpdate(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1 AND warehouse_id = $2
		FOR UPDATE`
	s, err := scanStock(r.q.QueryRow(ctx, query, productID, warehouseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock for update: %w", err)
	}
	return s, nil
}

// Upsert inserta o actualiza el saldo del par (producto, bodega).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	query := `
		INSERT INTO stock (product_id, warehouse_id, quantity_available, quantity_reserved, unit_type, last_updated, updated_by)
		VALUES ($1, $2, $3, $4, $5, now(), $6)
		ON CONFLICT (product_id, warehouse_id)
		DO UPDATE SET quantity_available = EXCLUDED.quantity_available,
		              quantity_reserved  = EXCLUDED.quantity_reserved,
		              last_updated       = now(),
		              updated_by         = EXCLUDED.updated_by`
	_, err := r.q.Exec(ctx, query,
		stock.ProductID, stock.WarehouseID, stock.Available, stock.Reserved,
		stock.UnitType, stock.UpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByProduct devuelve los saldos de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE product_id = $1
		ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", err)
	}
	defer rows.Close()
	return collectStocks(rows)
}

// ListByWarehouse devuelve los saldos de todos los productos de una bodega.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	query := `
		SELECT ` + stockColumns + `
		FROM stock WHERE warehouse_id = $1
		ORDER BY product_id`
	rows, err := r.q.Query(ctx, query, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", err)
	}
	defer rows.Close()
	return collectStocks(rows)
}

func scanStock(row pgx.Row) (*entity.Stock, error) {
	var s entity.Stock
	var updatedBy *string
	err := row.Scan(
		&s.ProductID, &s.WarehouseID, &s.Available, &s.Reserved,
		&s.UnitType, &s.UpdatedAt, &updatedBy,
	)
	if err != nil {
		return nil, err
	}
	if updatedBy != nil {
		s.UpdatedBy = *updatedBy
	}
	return &s, nil
}

func collectStocks(rows pgx.Rows) ([]*entity.Stock, error) {
	var out []*entity.Stock
	for rows.Next() {
		s, err := scanStock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock: %w", err)
	}
	return out, nil
}
