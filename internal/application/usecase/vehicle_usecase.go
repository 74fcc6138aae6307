package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/domain"
	"github.com/logiruta/logistica-api/internal/domain/entity"
	"github.com/logiruta/logistica-api/internal/domain/repository"
)

// VehicleUseCase registro de vehículos de la flota.
type VehicleUseCase struct {
	repo       repository.VehicleRepository
	driverRepo repository.DriverRepository
}

// NewVehicleUseCase construye el caso de uso.
func NewVehicleUseCase(repo repository.VehicleRepository, driverRepo repository.DriverRepository) *VehicleUseCase {
	return &VehicleUseCase{repo: repo, driverRepo: driverRepo}
}

// Create registra un vehículo; si trae conductor asignado, valida que exista
// y sea de la misma empresa. Nace activo.
func (uc *VehicleUseCase) Create(ctx context.Context, companyID string, in dto.CreateVehicleRequest) (*dto.VehicleResponse, error) {
	var driverID *string
	if in.DriverID != "" {
		d, err := uc.driverRepo.GetByID(ctx, in.DriverID)
		if err != nil {
			return nil, err
		}
		if d == nil || d.CompanyID != companyID {
			return nil, domain.ErrNotFound
		}
		driverID = &in.DriverID
	}
	now := time.Now()
	v := &entity.Vehicle{
		ID:             uuid.New().String(),
		CompanyID:      companyID,
		LicensePlate:   in.LicensePlate,
		VehicleType:    in.VehicleType,
		Brand:          in.Brand,
		Model:          in.Model,
		Year:           in.Year,
		WeightCapacity: in.WeightCapacity,
		Status:         entity.VehicleStatusActivo,
		DriverID:       driverID,
		Notes:          in.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return toVehicleResponse(v), nil
}

// GetByID devuelve un vehículo de la empresa; ErrNotFound si no existe,
// ErrForbidden si es de otra empresa.
func (uc *VehicleUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.VehicleResponse, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if v.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toVehicleResponse(v), nil
}

// UpdateStatus cambia el estado del vehículo (activo, en_mantenimiento, inactivo).
func (uc *VehicleUseCase) UpdateStatus(ctx context.Context, companyID, id, status string) (*dto.VehicleResponse, error) {
	v, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.ErrNotFound
	}
	if v.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	v.Status = status
	return toVehicleResponse(v), nil
}

// List lista vehículos de la empresa.
func (uc *VehicleUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.VehicleListResponse, error) {
	list, err := uc.repo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.VehicleResponse, 0, len(list))
	for _, v := range list {
		items = append(items, *toVehicleResponse(v))
	}
	return &dto.VehicleListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toVehicleResponse(v *entity.Vehicle) *dto.VehicleResponse {
	return &dto.VehicleResponse{
		ID:             v.ID,
		CompanyID:      v.CompanyID,
		LicensePlate:   v.LicensePlate,
		VehicleType:    v.VehicleType,
		Brand:          v.Brand,
		Model:          v.Model,
		Year:           v.Year,
		WeightCapacity: v.WeightCapacity,
		Status:         v.Status,
		DriverID:       v.DriverID,
		Notes:          v.Notes,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}
