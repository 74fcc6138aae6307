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

// DriverUseCase registro de conductores de la flota.
type DriverUseCase struct {
	repo repository.DriverRepository
}

// NewDriverUseCase construye el caso de uso.
func NewDriverUseCase(repo repository.DriverRepository) *DriverUseCase {
	return &DriverUseCase{repo: repo}
}

// Create registra un conductor para la empresa; nace disponible.
func (uc *DriverUseCase) Create(ctx context.Context, companyID string, in dto.CreateDriverRequest) (*dto.DriverResponse, error) {
	now := time.Now()
	d := &entity.Driver{
		ID:              uuid.New().String(),
		CompanyID:       companyID,
		Name:            in.Name,
		LicenseNumber:   in.LicenseNumber,
		LicenseType:     in.LicenseType,
		LicenseExpiry:   in.LicenseExpiry,
		YearsExperience: in.YearsExperience,
		Status:          entity.DriverStatusDisponible,
		Notes:           in.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return toDriverResponse(d), nil
}

// GetByID devuelve un conductor de la empresa; ErrNotFound si no existe,
// ErrForbidden si es de otra empresa.
func (uc *DriverUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.DriverResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return toDriverResponse(d), nil
}

// UpdateStatus cambia el estado del conductor (disponible, en_ruta, descanso, inactivo).
func (uc *DriverUseCase) UpdateStatus(ctx context.Context, companyID, id, status string) (*dto.DriverResponse, error) {
	d, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	if d.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if err := uc.repo.UpdateStatus(ctx, id, status); err != nil {
		return nil, err
	}
	d.Status = status
	return toDriverResponse(d), nil
}

// List lista conductores de la empresa.
func (uc *DriverUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.DriverListResponse, error) {
	list, err := uc.repo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.DriverResponse, 0, len(list))
	for _, d := range list {
		items = append(items, *toDriverResponse(d))
	}
	return &dto.DriverListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toDriverResponse(d *entity.Driver) *dto.DriverResponse {
	return &dto.DriverResponse{
		ID:              d.ID,
		CompanyID:       d.CompanyID,
		Name:            d.Name,
		LicenseNumber:   d.LicenseNumber,
		LicenseType:     d.LicenseType,
		LicenseExpiry:   d.LicenseExpiry,
		YearsExperience: d.YearsExperience,
		Status:          d.Status,
		Notes:           d.Notes,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}
