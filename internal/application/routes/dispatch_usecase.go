package routes

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
	"github.com/logiruta/logistica-api/pkg/logger"
)

// DispatchUseCase orquesta el ciclo de stock de una ruta de reparto:
// planear = reservar cada línea, salir = despachar lo reservado,
// cancelar = liberar las reservas. Cada línea es una operación atómica del
// motor de stock; si una reserva falla, las anteriores se compensan liberándolas.
type DispatchUseCase struct {
	routeRepo     repository.RouteRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	driverRepo    repository.DriverRepository
	vehicleRepo   repository.VehicleRepository
	engine        *stock.StockUseCase
	log           *logger.Logger
}

// NewDispatchUseCase construye el caso de uso.
func NewDispatchUseCase(
	routeRepo repository.RouteRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	driverRepo repository.DriverRepository,
	vehicleRepo repository.VehicleRepository,
	engine *stock.StockUseCase,
	log *logger.Logger,
) *DispatchUseCase {
	return &DispatchUseCase{
		routeRepo:     routeRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		driverRepo:    driverRepo,
		vehicleRepo:   vehicleRepo,
		engine:        engine,
		log:           log,
	}
}

// CreateRoute planea una ruta reservando el stock de cada línea contra la bodega
// de origen. Si alguna reserva falla (p. ej. InsufficientStock), las reservas ya
// tomadas se liberan antes de devolver el error.
func (uc *DispatchUseCase) CreateRoute(ctx context.Context, companyID, userID string, in dto.CreateRouteRequest) (*dto.RouteResponse, error) {
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
	if in.DriverID != "" {
		d, err := uc.driverRepo.GetByID(ctx, in.DriverID)
		if err != nil {
			return nil, err
		}
		if d == nil || d.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		if !d.Assignable() {
			return nil, domain.ErrConflict
		}
	}
	if in.VehicleID != "" {
		v, err := uc.vehicleRepo.GetByID(ctx, in.VehicleID)
		if err != nil {
			return nil, err
		}
		if v == nil || v.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		if !v.Assignable() {
			return nil, domain.ErrConflict
		}
	}

	now := time.Now()
	route := &entity.Route{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		Code:        in.Code,
		WarehouseID: in.WarehouseID,
		DriverID:    optID(in.DriverID),
		VehicleID:   optID(in.VehicleID),
		Status:      entity.RouteStatusPlanned,
		ScheduledAt: in.ScheduledAt,
		CreatedBy:   userID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

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
		route.Lines = append(route.Lines, entity.RouteLine{
			RouteID:   route.ID,
			ProductID: l.ProductID,
			BatchID:   optID(l.BatchID),
			Quantity:  l.Quantity,
			UnitType:  product.UnitType,
		})
	}

	// Reservar línea por línea; compensar las ya reservadas si alguna falla.
	reserved := make([]entity.RouteLine, 0, len(route.Lines))
	for _, line := range route.Lines {
		if _, err := uc.engine.Reserve(ctx, line.ProductID, route.WarehouseID, line.Quantity, userID, route.Code); err != nil {
			uc.releaseLines(ctx, reserved, route.WarehouseID, userID, route.Code)
			return nil, err
		}
		reserved = append(reserved, line)
	}

	if err := uc.routeRepo.Create(ctx, route); err != nil {
		uc.releaseLines(ctx, reserved, route.WarehouseID, userID, route.Code)
		return nil, err
	}
	return toRouteResponse(route), nil
}

// DispatchRoute confirma la salida física: despacha (DISPATCH) lo reservado de
// cada línea y marca la ruta DISPATCHED. Solo rutas PLANNED pueden salir.
func (uc *DispatchUseCase) DispatchRoute(ctx context.Context, companyID, userID, routeID string) (*dto.RouteResponse, error) {
	route, err := uc.getOwned(ctx, companyID, routeID)
	if err != nil {
		return nil, err
	}
	if route.Status != entity.RouteStatusPlanned {
		return nil, domain.ErrConflict
	}
	for _, line := range route.Lines {
		in := stock.MovementInput{
			ProductID:         line.ProductID,
			OriginWarehouseID: route.WarehouseID,
			Type:              entity.MovementTypeDISPATCH,
			Quantity:          line.Quantity,
			UnitType:          line.UnitType,
			ReferenceNumber:   route.Code,
			ActorID:           userID,
		}
		if line.BatchID != nil {
			in.BatchID = *line.BatchID
		}
		if _, err := uc.engine.RemoveStock(ctx, in); err != nil {
			// Las líneas ya despachadas quedan asentadas en el ledger; el estado
			// de la ruta no avanza y el operador puede reintentar las restantes.
			uc.log.Error().Err(err).
				Str("route_id", route.ID).
				Str("product_id", line.ProductID).
				Msg("despacho parcial de ruta")
			return nil, err
		}
	}
	if err := uc.routeRepo.UpdateStatus(ctx, route.ID, entity.RouteStatusDispatched); err != nil {
		return nil, err
	}
	route.Status = entity.RouteStatusDispatched
	return toRouteResponse(route), nil
}

// CancelRoute libera las reservas de una ruta PLANNED y la marca CANCELLED.
func (uc *DispatchUseCase) CancelRoute(ctx context.Context, companyID, userID, routeID string) (*dto.RouteResponse, error) {
	route, err := uc.getOwned(ctx, companyID, routeID)
	if err != nil {
		return nil, err
	}
	if route.Status != entity.RouteStatusPlanned {
		return nil, domain.ErrConflict
	}
	uc.releaseLines(ctx, route.Lines, route.WarehouseID, userID, route.Code)
	if err := uc.routeRepo.UpdateStatus(ctx, route.ID, entity.RouteStatusCancelled); err != nil {
		return nil, err
	}
	route.Status = entity.RouteStatusCancelled
	return toRouteResponse(route), nil
}

// CompleteRoute cierra una ruta DISPATCHED.
func (uc *DispatchUseCase) CompleteRoute(ctx context.Context, companyID, routeID string) (*dto.RouteResponse, error) {
	route, err := uc.getOwned(ctx, companyID, routeID)
	if err != nil {
		return nil, err
	}
	if route.Status != entity.RouteStatusDispatched {
		return nil, domain.ErrConflict
	}
	if err := uc.routeRepo.UpdateStatus(ctx, route.ID, entity.RouteStatusCompleted); err != nil {
		return nil, err
	}
	route.Status = entity.RouteStatusCompleted
	return toRouteResponse(route), nil
}

// GetByID devuelve una ruta de la empresa con sus líneas.
func (uc *DispatchUseCase) GetByID(ctx context.Context, companyID, routeID string) (*dto.RouteResponse, error) {
	route, err := uc.getOwned(ctx, companyID, routeID)
	if err != nil {
		return nil, err
	}
	return toRouteResponse(route), nil
}

// List lista rutas de la empresa.
func (uc *DispatchUseCase) List(ctx context.Context, companyID string, limit, offset int) ([]dto.RouteResponse, error) {
	list, err := uc.routeRepo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.RouteResponse, 0, len(list))
	for _, r := range list {
		out = append(out, *toRouteResponse(r))
	}
	return out, nil
}

func (uc *DispatchUseCase) getOwned(ctx context.Context, companyID, routeID string) (*entity.Route, error) {
	route, err := uc.routeRepo.GetByID(ctx, routeID)
	if err != nil {
		return nil, err
	}
	if route == nil || route.CompanyID != companyID {
		return nil, domain.ErrNotFound
	}
	return route, nil
}

// releaseLines compensa reservas ya tomadas. Los fallos solo se registran:
// una liberación fallida se corrige con un ajuste manual posterior.
func (uc *DispatchUseCase) releaseLines(ctx context.Context, lines []entity.RouteLine, warehouseID, userID, reference string) {
	for _, line := range lines {
		if _, err := uc.engine.Release(ctx, line.ProductID, warehouseID, line.Quantity, userID, reference); err != nil {
			uc.log.Error().Err(err).
				Str("product_id", line.ProductID).
				Str("warehouse_id", warehouseID).
				Str("reference", reference).
				Msg("no se pudo liberar la reserva al compensar")
		}
	}
}

func optID(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func toRouteResponse(r *entity.Route) *dto.RouteResponse {
	lines := make([]dto.RouteLineResponse, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, dto.RouteLineResponse{
			ProductID: l.ProductID,
			BatchID:   l.BatchID,
			Quantity:  l.Quantity,
			UnitType:  l.UnitType,
		})
	}
	return &dto.RouteResponse{
		ID:          r.ID,
		CompanyID:   r.CompanyID,
		Code:        r.Code,
		WarehouseID: r.WarehouseID,
		DriverID:    r.DriverID,
		VehicleID:   r.VehicleID,
		Status:      r.Status,
		ScheduledAt: r.ScheduledAt,
		CreatedAt:   r.CreatedAt,
		Lines:       lines,
	}
}
