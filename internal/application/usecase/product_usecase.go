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

// ProductCache puerto del caché de catálogo (read-through con TTL).
// Los saldos de stock NUNCA pasan por aquí: solo la definición del producto.
type ProductCache interface {
	Get(ctx context.Context, id string) (*entity.Product, error) // nil, nil = miss
	Set(ctx context.Context, product *entity.Product) error
	Invalidate(ctx context.Context, id string) error
}

// ProductUseCase CRUD del catálogo de productos, con caché opcional.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache ProductCache // opcional (nil = sin caché)
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, cache ProductCache) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache}
}

// Create crea un producto; SKU duplicado en la empresa devuelve ErrDuplicate.
func (uc *ProductUseCase) Create(ctx context.Context, companyID string, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetBySKU(ctx, companyID, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	p := &entity.Product{
		ID:          uuid.New().String(),
		CompanyID:   companyID,
		SKU:         in.SKU,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		UnitType:    in.UnitType,
		StorageType: in.StorageType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProductResponse(p), nil
}

// GetByID devuelve un producto (read-through: caché primero, luego base).
func (uc *ProductUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ProductResponse, error) {
	if uc.cache != nil {
		if p, err := uc.cache.Get(ctx, id); err == nil && p != nil {
			if p.CompanyID != companyID {
				return nil, domain.ErrForbidden
			}
			return toProductResponse(p), nil
		}
	}
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if uc.cache != nil {
		_ = uc.cache.Set(ctx, p) // best-effort
	}
	return toProductResponse(p), nil
}

// Update actualiza campos del producto e invalida el caché.
func (uc *ProductUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	if p.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.StorageType != nil {
		p.StorageType = *in.StorageType
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	if uc.cache != nil {
		_ = uc.cache.Invalidate(ctx, id)
	}
	return toProductResponse(p), nil
}

// List lista productos de la empresa.
func (uc *ProductUseCase) List(ctx context.Context, companyID string, limit, offset int) (*dto.ProductListResponse, error) {
	list, err := uc.repo.List(ctx, companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		CompanyID:   p.CompanyID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		UnitType:    p.UnitType,
		StorageType: p.StorageType,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
