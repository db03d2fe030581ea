package repository

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
)

// ProductSupplierRepository define el puerto de persistencia para los vínculos producto-proveedor.
type ProductSupplierRepository interface {
	// Create falla con domain.ErrDuplicate si el par (producto, proveedor) ya existe.
	Create(ctx context.Context, ps *entity.ProductSupplier) error
	GetByID(ctx context.Context, id string) (*entity.ProductSupplier, error)
	Update(ctx context.Context, ps *entity.ProductSupplier) error
	// ListByProduct ordena primero el proveedor principal.
	ListByProduct(ctx context.Context, productID string) ([]*entity.ProductSupplier, error)
	Delete(ctx context.Context, id string) error
}
