package repository

import (
	"context"

	"github.com/logiruta/logistica-api/internal/domain/entity"
)

// CompanyRepository define el puerto de persistencia para empresas.
type CompanyRepository interface {
	Create(ctx context.Context, company *entity.Company) error
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Company, error)
}
