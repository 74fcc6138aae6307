package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para productos (DIP).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetBySKU(ctx context.Context, companyID, sku string) (*entity.Product, error)
	List(ctx context.Context, companyID string, limit, offset int) ([]*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
}
