package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

var (
	_ repository.StockLedger = (*StockRepo)(nil)
	_ repository.StockReader = (*StockRepo)(nil)
)

// StockRepo libro de stock sobre PostgreSQL (usable con pool o tx).
// Las mutaciones solo tienen sentido dentro de una tx: los bloqueos duran hasta el Commit.
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

const stockColumns = `warehouse_id, product_id, quantity, created_at, updated_at`

// GetOrCreateLocked crea con cantidad 0 las filas que falten y bloquea todas con SELECT FOR UPDATE.
// Se bloquean en orden de product_id para que dos posteos con productos cruzados no se interbloqueen.
func (r *StockRepo) GetOrCreateLocked(ctx context.Context, warehouseID string, productIDs []string) (map[string]*entity.Stock, error) {
	out := make(map[string]*entity.Stock, len(productIDs))
	if len(productIDs) == 0 {
		return out, nil
	}

	insert := `
		INSERT INTO stock (warehouse_id, product_id, quantity, created_at, updated_at)
		SELECT $1::uuid, p.id::uuid, 0, now(), now()
		FROM unnest($2::text[]) AS p(id)
		ORDER BY p.id
		ON CONFLICT (warehouse_id, product_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, warehouseID, productIDs); err != nil {
		return nil, fmt.Errorf("create stock rows: %w", err)
	}

	query := `
		SELECT ` + stockColumns + `
		FROM stock
		WHERE warehouse_id = $1 AND product_id = ANY($2::text[]::uuid[])
		ORDER BY product_id
		FOR UPDATE`
	rows, err := r.q.Query(ctx, query, warehouseID, productIDs)
	if err != nil {
		return nil, fmt.Errorf("lock stock rows: %w", err)
	}
	list, err := scanStocks(rows)
	if err != nil {
		return nil, fmt.Errorf("lock stock rows: %w", err)
	}
	for _, s := range list {
		out[s.ProductID] = s
	}
	if len(out) != len(productIDs) {
		return nil, fmt.Errorf("lock stock rows: esperadas %d filas, obtenidas %d", len(productIDs), len(out))
	}
	return out, nil
}

// Adjust aplica quantity += delta sobre la fila ya bloqueada y refresca entry.
// El CHECK stock_non_negative rechaza cualquier resultado negativo.
func (r *StockRepo) Adjust(ctx context.Context, entry *entity.Stock, delta decimal.Decimal) error {
	query := `
		UPDATE stock SET quantity = quantity + $3, updated_at = now()
		WHERE warehouse_id = $1 AND product_id = $2
		RETURNING quantity, updated_at`
	err := r.q.QueryRow(ctx, query, entry.WarehouseID, entry.ProductID, delta).Scan(&entry.Quantity, &entry.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("adjust stock %s/%s: fila inexistente", entry.WarehouseID, entry.ProductID)
		}
		return fmt.Errorf("adjust stock: %w", mapError(err))
	}
	return nil
}

// Get obtiene el stock actual de un producto en una bodega. Cantidad 0 si aún no hay fila.
func (r *StockRepo) Get(ctx context.Context, warehouseID, productID string) (*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE warehouse_id = $1 AND product_id = $2`
	var s entity.Stock
	err := r.q.QueryRow(ctx, query, warehouseID, productID).Scan(
		&s.WarehouseID, &s.ProductID, &s.Quantity, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.Stock{WarehouseID: warehouseID, ProductID: productID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", mapError(err))
	}
	return &s, nil
}

// ListByWarehouse lista el stock de una bodega ordenado por SKU.
func (r *StockRepo) ListByWarehouse(ctx context.Context, warehouseID string, limit, offset int) ([]*entity.Stock, error) {
	query := `
		SELECT s.warehouse_id, s.product_id, s.quantity, s.created_at, s.updated_at
		FROM stock s JOIN products p ON p.id = s.product_id
		WHERE s.warehouse_id = $1
		ORDER BY p.sku
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, warehouseID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock by warehouse: %w", mapError(err))
	}
	return scanStocks(rows)
}

// ListByProduct lista el stock de un producto en todas las bodegas.
func (r *StockRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Stock, error) {
	query := `SELECT ` + stockColumns + ` FROM stock WHERE product_id = $1 ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list stock by product: %w", mapError(err))
	}
	return scanStocks(rows)
}

func scanStocks(rows pgx.Rows) ([]*entity.Stock, error) {
	defer rows.Close()
	var list []*entity.Stock
	for rows.Next() {
		var s entity.Stock
		if err := rows.Scan(&s.WarehouseID, &s.ProductID, &s.Quantity, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
