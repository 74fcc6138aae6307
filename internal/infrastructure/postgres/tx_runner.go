package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/logiruta/logistica-api/internal/application/sales"
	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// Ensure TxRunner implements stock.TxRunner and sales.SaleTxRunner.
var _ stock.TxRunner = (*TxRunner)(nil)
var _ sales.SaleTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
// Los errores transitorios (deadlock, timeout, serialization) salen etiquetados
// como domain.ErrTransientStore; el rollback del defer garantiza que un fallo en
// cualquier punto no deja efectos parciales.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción, ejecuta fn con los repos de stock atados a la tx
// y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapTransient(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockRepository(tx), NewStockMovementRepository(tx)); err != nil {
		return wrapTransient(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapTransient(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

// RunSale inicia una transacción con repos de stock y ventas (para CreateSale).
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	saleRepo repository.SaleRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapTransient(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewStockRepository(tx), NewStockMovementRepository(tx), NewSaleRepository(tx)); err != nil {
		return wrapTransient(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return wrapTransient(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
