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

// MovementInput entrada para AddStock / RemoveStock.
// AddStock exige DestinationWarehouseID; RemoveStock exige OriginWarehouseID.
type MovementInput struct {
	ProductID              string
	OriginWarehouseID      string
	DestinationWarehouseID string
	BatchID                string
	Type                   string
	Quantity               decimal.Decimal
	UnitType               string
	ReferenceNumber        string
	Notes                  string
	ActorID                string
}

// AddStock registra una entrada (compra, producción, devolución o llegada de traslado).
// Si no existe fila de saldo para (producto, bodega destino) la crea con
// available = qty y reserved = 0; si existe, suma al disponible. Registra el
// movimiento con el tipo indicado (ENTRY por defecto).
func (uc *StockUseCase) AddStock(ctx context.Context, in MovementInput) (*entity.Stock, error) {
	if in.DestinationWarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		recordFailure(domain.ErrInvalidInput)
		return nil, domain.ErrInvalidInput
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeENTRY
	}
	if !entity.ValidMovementType(movType) {
		recordFailure(domain.ErrInvalidInput)
		return nil, domain.ErrInvalidInput
	}
	product, err := uc.validateRefs(ctx, in.ProductID, in.DestinationWarehouseID, in.UnitType)
	if err != nil {
		recordFailure(err)
		return nil, err
	}
	unitType := in.UnitType
	if unitType == "" {
		unitType = product.UnitType
	}

	var updated *entity.Stock
	var mov *entity.StockMovement
	err = uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		now := time.Now()
		s, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.DestinationWarehouseID)
		if err != nil {
			return err
		}
		if s == nil {
			// Primera entrada del par: la fila de saldo se crea aquí y no se borra nunca.
			s = &entity.Stock{
				ProductID:   in.ProductID,
				WarehouseID: in.DestinationWarehouseID,
				Available:   in.Quantity,
				Reserved:    decimal.Zero,
				UnitType:    unitType,
			}
		} else {
			s.Available = s.Available.Add(in.Quantity)
		}
		s.UpdatedAt = now
		s.UpdatedBy = in.ActorID
		if err := stockRepo.Upsert(ctx, s); err != nil {
			return err
		}
		mov = &entity.StockMovement{
			ID:                     uuid.New().String(),
			ProductID:              in.ProductID,
			DestinationWarehouseID: &in.DestinationWarehouseID,
			BatchID:                strPtr(in.BatchID),
			Type:                   movType,
			Quantity:               in.Quantity,
			UnitType:               unitType,
			ReferenceNumber:        strPtr(in.ReferenceNumber),
			Notes:                  strPtr(in.Notes),
			CreatedBy:              in.ActorID,
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
	metrics.StockMovementsTotal.WithLabelValues(movType).Inc()
	uc.publish(ctx, mov)
	return updated, nil
}

// RemoveStock registra una salida (venta, baja, ajuste o despacho de ruta).
// DISPATCH descuenta del reservado — es la confirmación física de una reserva previa;
// cualquier otro tipo descuenta del disponible. En ambos casos el faltante rechaza
// la operación sin tocar el saldo.
func (uc *StockUseCase) RemoveStock(ctx context.Context, in MovementInput) (*entity.Stock, error) {
	if in.OriginWarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		recordFailure(domain.ErrInvalidInput)
		return nil, domain.ErrInvalidInput
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeEXIT
	}
	if !entity.ValidMovementType(movType) {
		recordFailure(domain.ErrInvalidInput)
		return nil, domain.ErrInvalidInput
	}
	if _, err := uc.validateRefs(ctx, in.ProductID, in.OriginWarehouseID, in.UnitType); err != nil {
		recordFailure(err)
		return nil, err
	}

	var updated *entity.Stock
	var mov *entity.StockMovement
	err := uc.txRunner.Run(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error {
		s, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.OriginWarehouseID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.ErrNotFound
		}
		now := time.Now()
		if movType == entity.MovementTypeDISPATCH {
			if s.Reserved.LessThan(in.Quantity) {
				return domain.ErrInsufficientReserved
			}
			s.Reserved = s.Reserved.Sub(in.Quantity)
		} else {
			if s.Available.LessThan(in.Quantity) {
				return domain.ErrInsufficientStock
			}
			s.Available = s.Available.Sub(in.Quantity)
		}
		s.UpdatedAt = now
		s.UpdatedBy = in.ActorID
		if err := stockRepo.Upsert(ctx, s); err != nil {
			return err
		}
		unitType := in.UnitType
		if unitType == "" {
			unitType = s.UnitType
		}
		mov = &entity.StockMovement{
			ID:                uuid.New().String(),
			ProductID:         in.ProductID,
			OriginWarehouseID: &in.OriginWarehouseID,
			BatchID:           strPtr(in.BatchID),
			Type:              movType,
			Quantity:          in.Quantity,
			UnitType:          unitType,
			ReferenceNumber:   strPtr(in.ReferenceNumber),
			Notes:             strPtr(in.Notes),
			CreatedBy:         in.ActorID,
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
	metrics.StockMovementsTotal.WithLabelValues(movType).Inc()
	uc.publish(ctx, mov)
	return updated, nil
}

// RemoveStockInTx ejecuta una salida usando repositorios de una transacción abierta
// por el caller (p. ej. CreateSale: venta + descuento de stock en un solo commit).
// No publica eventos ni métricas por movimiento; eso queda en manos del caller.
func (uc *StockUseCase) RemoveStockInTx(
	ctx context.Context,
	stockRepo repository.StockRepository,
	movRepo repository.StockMovementRepository,
	in MovementInput,
) (*entity.Stock, error) {
	if in.OriginWarehouseID == "" || !in.Quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	movType := in.Type
	if movType == "" {
		movType = entity.MovementTypeEXIT
	}
	if !entity.ValidMovementType(movType) {
		return nil, domain.ErrInvalidInput
	}
	s, err := stockRepo.GetForUpdate(ctx, in.ProductID, in.OriginWarehouseID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	if movType == entity.MovementTypeDISPATCH {
		if s.Reserved.LessThan(in.Quantity) {
			return nil, domain.ErrInsufficientReserved
		}
		s.Reserved = s.Reserved.Sub(in.Quantity)
	} else {
		if s.Available.LessThan(in.Quantity) {
			return nil, domain.ErrInsufficientStock
		}
		s.Available = s.Available.Sub(in.Quantity)
	}
	s.UpdatedAt = now
	s.UpdatedBy = in.ActorID
	if err := stockRepo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	unitType := in.UnitType
	if unitType == "" {
		unitType = s.UnitType
	}
	mov := &entity.StockMovement{
		ID:                uuid.New().String(),
		ProductID:         in.ProductID,
		OriginWarehouseID: &in.OriginWarehouseID,
		BatchID:           strPtr(in.BatchID),
		Type:              movType,
		Quantity:          in.Quantity,
		UnitType:          unitType,
		ReferenceNumber:   strPtr(in.ReferenceNumber),
		Notes:             strPtr(in.Notes),
		CreatedBy:         in.ActorID,
		CreatedAt:         now,
	}
	if err := movRepo.Create(ctx, mov); err != nil {
		return nil, err
	}
	return s, nil
}
