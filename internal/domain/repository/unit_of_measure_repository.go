package repository

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
)

// UnitOfMeasureRepository define el puerto de persistencia para UnitOfMeasure.
type UnitOfMeasureRepository interface {
	Create(ctx context.Context, unit *entity.UnitOfMeasure) error
	GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error)
	Update(ctx context.Context, unit *entity.UnitOfMeasure) error
	List(ctx context.Context, limit, offset int) ([]*entity.UnitOfMeasure, error)
	// Delete falla con domain.ErrConflict si algún producto usa la unidad.
	Delete(ctx context.Context, id string) error
}
