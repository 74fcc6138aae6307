package sales

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// SaleTxRunner abre una transacción con los repositorios de venta e inventario:
// la venta y los descuentos de stock de sus renglones se confirman en un solo commit.
type SaleTxRunner interface {
	RunSale(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error) error
}
