package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// BatchUseCase gestión de lotes: alta, transiciones de estado, vencimientos y
// conciliación lote-vs-saldo. El motor de stock solo referencia lotes en el
// ledger; la consistencia de cantidades por lote se vigila aquí como reporte.
type BatchUseCase struct {
	repo        repository.BatchRepository
	stockRepo   repository.StockRepository
	productRepo repository.ProductRepository
}

// NewBatchUseCase construye el caso de uso.
func NewBatchUseCase(repo repository.BatchRepository, stockRepo repository.StockRepository, productRepo repository.ProductRepository) *BatchUseCase {
	return &BatchUseCase{repo: repo, stockRepo: stockRepo, productRepo: productRepo}
}

// Create registra un lote; la unidad por defecto es la del producto.
func (uc *BatchUseCase) Create(ctx context.Context, in dto.CreateBatchRequest) (*dto.BatchResponse, error) {
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	unitType := in.UnitType
	if unitType == "" {
		unitType = product.UnitType
	} else if unitType != product.UnitType {
		return nil, domain.ErrInvalidInput
	}
	b := &entity.ProductBatch{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		WarehouseID:      in.WarehouseID,
		BatchNumber:      in.BatchNumber,
		ManufacturedDate: in.ManufacturedDate,
		ExpiryDate:       in.ExpiryDate,
		Quantity:         in.Quantity,
		UnitType:         unitType,
		Status:           entity.BatchStatusAvailable,
		Notes:            in.Notes,
		CreatedAt:        time.Now(),
	}
	if err := uc.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return toBatchResponse(b), nil
}

// UpdateStatus cambia el estado del lote validando la transición.
func (uc *BatchUseCase) UpdateStatus(ctx context.Context, id, status string) (*dto.BatchResponse, error) {
	b, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, domain.ErrNotFound
	}
	if !b.CanTransition(status) {
		return nil, domain.ErrConflict
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	b.Status = status
	return toBatchResponse(b), nil
}

// ListByProduct lista los lotes de un producto en una bodega.
func (uc *BatchUseCase) ListByProduct(ctx context.Context, productID, warehouseID string) ([]dto.BatchResponse, error) {
	list, err := uc.repo.ListByProduct(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.BatchResponse, 0, len(list))
	for _, b := range list {
		out = append(out, *toBatchResponse(b))
	}
	return out, nil
}

// ExpireDue marca vencidos los lotes AVAILABLE con fecha de vencimiento pasada.
func (uc *BatchUseCase) ExpireDue(ctx context.Context) (int64, error) {
	return uc.repo.ExpireDue(ctx, time.Now())
}

// Reconcile compara la suma de lotes no terminales contra el total en bodega
// (disponible + reservado) del par. Las dos tablas no están ligadas por la base;
// este reporte detecta divergencias para corrección manual.
func (uc *BatchUseCase) Reconcile(ctx context.Context, productID, warehouseID string) (*dto.BatchReconciliationResponse, error) {
	batchTotal, err := uc.repo.SumQuantities(ctx, productID, warehouseID)
	if err != nil {
		return nil, err
	}
	onHand := decimal.Zero
	if s, err := uc.stockRepo.Get(ctx, productID, warehouseID); err != nil {
		return nil, err
	} else if s != nil {
		onHand = s.OnHand()
	}
	return &dto.BatchReconciliationResponse{
		ProductID:     productID,
		WarehouseID:   warehouseID,
		BatchTotal:    batchTotal,
		BalanceOnHand: onHand,
		Consistent:    batchTotal.LessThanOrEqual(onHand),
	}, nil
}

func toBatchResponse(b *entity.ProductBatch) *dto.BatchResponse {
	return &dto.BatchResponse{
		ID:               b.ID,
		ProductID:        b.ProductID,
		WarehouseID:      b.WarehouseID,
		BatchNumber:      b.BatchNumber,
		ManufacturedDate: b.ManufacturedDate,
		ExpiryDate:       b.ExpiryDate,
		Quantity:         b.Quantity,
		UnitType:         b.UnitType,
		Status:           b.Status,
		Notes:            b.Notes,
		CreatedAt:        b.CreatedAt,
	}
}
