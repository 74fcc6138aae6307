package stock

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
	"github.com/logiruta/logistica-api/pkg/metrics"
)

// Reserve compromete qty del disponible hacia el reservado del par (producto, bodega).
// Atómico: bloquea la fila, valida disponible >= qty (si no, ErrInsufficientStock),
// mueve la cantidad y registra un movimiento RESERVATION. El total en bodega no cambia.
func (uc *StockUseCase) Reserve(ctx context.Context, productID, warehouseID string, qty decimal.Decimal, actorID, reference string) (*entity.Stock, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	start := time.Now()

	var updated *entity.Stock
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		s, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Available.LessThan(qty) {
			return domain.ErrInsufficientStock
		}
		now := time.Now()
		s.Available = s.Available.Sub(qty)
		s.Reserved = s.Reserved.Add(qty)
		s.UpdatedAt = now
		s.UpdatedBy = actorID
		if err := stockRepo.Upsert(ctx, s); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:                uuid.New().String(),
			ProductID:         productID,
			OriginWarehouseID: &warehouseID,
			Type:              entity.MovementTypeRESERVATION,
			Quantity:          qty,
			UnitType:          s.UnitType,
			ReferenceNumber:   strPtr(reference),
			CreatedBy:         actorID,
			CreatedAt:         now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		recordFailure(err)
		return nil, err
	}
	metrics.StockMovementsTotal.WithLabelValues(entity.MovementTypeRESERVATION).Inc()
	metrics.StockReservationLatency.Observe(time.Since(start).Seconds())
	uc.publish(ctx, mov)
	return updated, nil
}

// Release devuelve qty del reservado al disponible (cancelación de ruta/venta).
// Valida reservado >= qty (si no, ErrInsufficientReserved) y registra un movimiento
// RETURN: también las liberaciones dejan rastro en el ledger.
func (uc *StockUseCase) Release(ctx context.Context, productID, warehouseID string, qty decimal.Decimal, actorID, reference string) (*entity.Stock, error) {
	if !qty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	var updated *entity.Stock
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		s, err := stockRepo.GetForUpdate(ctx, productID, warehouseID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		if s.Reserved.LessThan(qty) {
			return domain.ErrInsufficientReserved
		}
		now := time.Now()
		s.Available = s.Available.Add(qty)
		s.Reserved = s.Reserved.Sub(qty)
		s.UpdatedAt = now
		s.UpdatedBy = actorID
		if err := stockRepo.Upsert(ctx, s); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:                     uuid.New().String(),
			ProductID:              productID,
			DestinationWarehouseID: &warehouseID,
			Type:                   entity.MovementTypeRETURN,
			Quantity:               qty,
			UnitType:               s.UnitType,
			ReferenceNumber:        strPtr(reference),
			CreatedBy:              actorID,
			CreatedAt:              now,
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		updated = s
		return nil
	})
	if err != nil {
		recordFailure(err)
		return nil, err
	}
	metrics.StockMovementsTotal.WithLabelValues(entity.MovementTypeRETURN).Inc()
	uc.publish(ctx, mov)
	return updated, nil
}
