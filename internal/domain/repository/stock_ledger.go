package repository

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// StockLedger es el libro de stock por (bodega, producto). Solo el motor de posteo lo muta,
// siempre dentro de una transacción y únicamente por deltas.
type StockLedger interface {
	// GetOrCreateLocked devuelve una fila por producto, creando con cantidad 0 las que falten,
	// y bloquea todas (FOR UPDATE) hasta el fin de la transacción.
	GetOrCreateLocked(ctx context.Context, warehouseID string, productIDs []string) (map[string]*entity.Stock, error)
	// Adjust aplica entry.Quantity += delta en almacenamiento y refresca entry.
	Adjust(ctx context.Context, entry *entity.Stock, delta decimal.Decimal) error
}

// StockReader lectura del stock para reportes (fuera del camino de escritura).
type StockReader interface {
	Get(ctx context.Context, warehouseID, productID string) (*entity.Stock, error)
	ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Stock, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error)
}
