package stock

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad saldo+ledger para el motor de stock.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
	) error) error
}

// MovementPublisher publica movimientos confirmados hacia el broker de eventos.
// La publicación es best-effort: ocurre después del commit y nunca revierte la operación.
type MovementPublisher interface {
	PublishMovement(ctx context.Context, movement *entity.StockMovement) error
}
