package repository

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
)

// BrandRepository define el puerto de persistencia para Brand.
type BrandRepository interface {
	Create(ctx context.Context, brand *entity.Brand) error
	GetByID(ctx context.Context, id string) (*entity.Brand, error)
	Update(ctx context.Context, brand *entity.Brand) error
	List(ctx context.Context, limit, offset int) ([]*entity.Brand, error)
	// Delete falla con domain.ErrConflict si hay productos con la marca.
	Delete(ctx context.Context, id string) error
}
