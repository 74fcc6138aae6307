package stock

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
	"github.com/logiruta/logistica-api/pkg/logger"
	"github.com/logiruta/logistica-api/pkg/metrics"
)

// DefaultHistoryLimit es el tope por defecto del historial de movimientos.
const DefaultHistoryLimit = 50

// StockUseCase es el motor de stock y reservas: ejecuta reserve, release, entradas,
// salidas/despachos y consultas de disponibilidad como operaciones atómicas sobre
// el saldo (Stock) y el ledger (StockMovement).
//
// Toda mutación corre dentro de txRunner.Run con bloqueo de fila
// (SELECT FOR UPDATE) sobre el saldo; el ledger recibe exactamente una fila por
// mutación exitosa. Los saldos nunca se cachean: cada lectura va a la base.
type StockUseCase struct {
	txRunner      TxRunner
	stockRepo     repository.StockRepository         // lecturas fuera de tx
	movRepo       repository.StockMovementRepository // lecturas fuera de tx
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	publisher     MovementPublisher // opcional (nil = sin eventos)
	log           *logger.Logger
}

// NewStockUseCase construye el motor de stock.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	publisher MovementPublisher,
	log *logger.Logger,
) *StockUseCase {
	return &StockUseCase{
		txRunner:      txRunner,
		stockRepo:     stockRepo,
		movRepo:       movRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		publisher:     publisher,
		log:           log,
	}
}

// GetBalance devuelve el saldo de un producto en una bodega, o ErrNotFound si no hay fila.
func (uc *StockUseCase) GetBalance(ctx context.Context, productID, warehouseID string) (*entity.Stock, error) {
	s, err := uc.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// GetByProduct devuelve los saldos de un producto en todas las bodegas.
func (uc *StockUseCase) GetByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	return uc.stockRepo.ListByProduct(ctx, productID)
}

// GetByWarehouse devuelve los saldos de todos los productos de una bodega.
func (uc *StockUseCase) GetByWarehouse(ctx context.Context, warehouseID string) ([]*entity.Stock, error) {
	return uc.stockRepo.ListByWarehouse(ctx, warehouseID)
}

// CheckAvailability indica si hay disponible >= qty para el par. Si no existe fila
// de saldo devuelve false, no error.
func (uc *StockUseCase) CheckAvailability(ctx context.Context, productID, warehouseID string, qty decimal.Decimal) (bool, error) {
	s, err := uc.stockRepo.Get(ctx, productID, warehouseID)
	if err != nil {
		return false, err
	}
	if s == nil {
		return false, nil
	}
	return s.Available.GreaterThanOrEqual(qty), nil
}

// MovementHistory devuelve los movimientos de un producto, más recientes primero,
// hasta limit (por defecto DefaultHistoryLimit).
func (uc *StockUseCase) MovementHistory(ctx context.Context, productID string, limit int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return uc.movRepo.ListByProduct(ctx, productID, limit)
}

// MovementsByWarehouse devuelve movimientos que tocan una bodega (origen o destino),
// con rango de fechas opcional y paginación.
func (uc *StockUseCase) MovementsByWarehouse(ctx context.Context, warehouseID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}
	return uc.movRepo.ListByWarehouse(ctx, warehouseID, from, to, limit, offset)
}

// publish envía el movimiento confirmado al broker. Best-effort: un fallo aquí
// solo se registra, el movimiento ya está comprometido en la base.
func (uc *StockUseCase) publish(ctx context.Context, mov *entity.StockMovement) {
	if uc.publisher == nil || mov == nil {
		return
	}
	if err := uc.publisher.PublishMovement(ctx, mov); err != nil {
		uc.log.Warn().Err(err).
			Str("movement_id", mov.ID).
			Str("type", mov.Type).
			Msg("no se pudo publicar el movimiento")
	}
}

// recordFailure clasifica el error para métricas.
func recordFailure(err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		metrics.StockOperationsFailedTotal.WithLabelValues("insufficient_stock").Inc()
	case errors.Is(err, domain.ErrInsufficientReserved):
		metrics.StockOperationsFailedTotal.WithLabelValues("insufficient_reserved").Inc()
	case errors.Is(err, domain.ErrNotFound):
		metrics.StockOperationsFailedTotal.WithLabelValues("not_found").Inc()
	case errors.Is(err, domain.ErrInvalidInput):
		metrics.StockOperationsFailedTotal.WithLabelValues("invalid_input").Inc()
	case errors.Is(err, domain.ErrTransientStore):
		metrics.StockOperationsFailedTotal.WithLabelValues("transient").Inc()
	default:
		metrics.StockOperationsFailedTotal.WithLabelValues("internal").Inc()
	}
}

// validateRefs verifica que producto y bodega existan. Si unitType no es vacío,
// exige que coincida con la unidad declarada del producto.
func (uc *StockUseCase) validateRefs(ctx context.Context, productID, warehouseID, unitType string) (*entity.Product, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, warehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, domain.ErrNotFound
	}
	if unitType != "" && unitType != product.UnitType {
		return nil, domain.ErrInvalidInput
	}
	return product, nil
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
