package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/stock"
	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// CreateSaleUseCase registra una venta de mostrador descontando stock disponible
// (EXIT) por cada renglón, todo dentro de una sola transacción: si algún renglón
// no tiene stock, no se persiste ni la venta ni ningún descuento.
type CreateSaleUseCase struct {
	txRunner      SaleTxRunner
	engine        *stock.StockUseCase
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	saleRepo      repository.SaleRepository // lecturas fuera de tx
}

// NewCreateSaleUseCase construye el caso de uso.
func NewCreateSaleUseCase(
	txRunner SaleTxRunner,
	engine *stock.StockUseCase,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	saleRepo repository.SaleRepository,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner:      txRunner,
		engine:        engine,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		saleRepo:      saleRepo,
	}
}

// Create valida renglones y empresa, y ejecuta venta + descuentos en una transacción.
func (uc *CreateSaleUseCase) Create(ctx context.Context, companyID, userID string, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	wh, err := uc.warehouseRepo.GetByID(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if wh == nil || wh.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	sale := &entity.Sale{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		WarehouseID:  in.WarehouseID,
		CustomerName: in.CustomerName,
		Total:        decimal.Zero,
		CreatedBy:    userID,
		CreatedAt:    now,
	}
	units := make(map[string]string, len(in.Lines))
	for _, l := range in.Lines {
		if !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.productRepo.GetByID(ctx, l.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		unitPrice := l.UnitPrice
		if unitPrice.IsZero() {
			unitPrice = product.Price
		}
		subtotal := l.Quantity.Mul(unitPrice)
		sale.Total = sale.Total.Add(subtotal)
		units[l.ProductID] = product.UnitType
		sale.Lines = append(sale.Lines, entity.SaleLine{
			SaleID:    sale.ID,
			ProductID: l.ProductID,
			BatchID:   optID(l.BatchID),
			Quantity:  l.Quantity,
			UnitPrice: unitPrice,
			Subtotal:  subtotal,
		})
	}

	err = uc.txRunner.RunSale(ctx, func(
		stockRepo repository.StockRepository,
		movRepo repository.StockMovementRepository,
		saleRepo repository.SaleRepository,
	) error {
		for _, line := range sale.Lines {
			mi := stock.MovementInput{
				ProductID:         line.ProductID,
				OriginWarehouseID: sale.WarehouseID,
				Type:              entity.MovementTypeEXIT,
				Quantity:          line.Quantity,
				UnitType:          units[line.ProductID],
				ReferenceNumber:   sale.ID,
				ActorID:           userID,
			}
			if line.BatchID != nil {
				mi.BatchID = *line.BatchID
			}
			if _, err := uc.engine.RemoveStockInTx(ctx, stockRepo, movRepo, mi); err != nil {
				return err
			}
		}
		return saleRepo.Create(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return toSaleResponse(sale), nil
}

// GetByID devuelve una venta de la empresa.
func (uc *CreateSaleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil || sale.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return toSaleResponse(sale), nil
}

// List lista ventas de la empresa.
func (uc *CreateSaleUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]dto.SaleResponse, error) {
	list, err := uc.saleRepo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SaleResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSaleResponse(s))
	}
	return out, nil
}

func optID(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toSaleResponse(s *entity.Sale) *dto.SaleResponse {
	lines := make([]dto.SaleLineResponse, 0, len(s.Lines))
	for _, l := range s.Lines {
		lines = append(lines, dto.SaleLineResponse{
			ProductID: l.ProductID,
			BatchID:   l.BatchID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal,
		})
	}
	return &dto.SaleResponse{
		ID:           s.ID,
		CompanyID:    s.CompanyID,
		WarehouseID:  s.WarehouseID,
		CustomerName: s.CustomerName,
		Total:        s.Total,
		CreatedAt:    s.CreatedAt,
		Lines:        lines,
	}
}
