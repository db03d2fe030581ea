package repository

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
)

// CategoryRepository define el puerto de persistencia para Category.
type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	GetByID(ctx context.Context, id string) (*entity.Category, error)
	Update(ctx context.Context, category *entity.Category) error
	List(ctx context.Context, limit, offset int) ([]*entity.Category, error)
	// ListByParent devuelve las hijas directas; parentID vacío lista las raíces.
	ListByParent(ctx context.Context, parentID string) ([]*entity.Category, error)
	// Delete elimina la categoría; sus hijas quedan como raíz.
	Delete(ctx context.Context, id string) error
}
