package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.ProductSupplierRepository = (*ProductSupplierRepo)(nil)

// ProductSupplierRepo vínculos producto-proveedor sobre PostgreSQL.
type ProductSupplierRepo struct {
	q Querier
}

// NewProductSupplierRepository construye el adaptador. Pasar pool o tx (Querier).
func NewProductSupplierRepository(q Querier) *ProductSupplierRepo {
	return &ProductSupplierRepo{q: q}
}

const productSupplierColumns = `id, product_id, supplier_id, supplier_code, last_purchase_cost, reference_cost,
	is_primary, created_at, updated_at`

// Create persiste el vínculo. El par (producto, proveedor) es único.
func (r *ProductSupplierRepo) Create(ctx context.Context, ps *entity.ProductSupplier) error {
	query := `INSERT INTO product_suppliers (` + productSupplierColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, ps.ID, ps.ProductID, ps.SupplierID, ps.SupplierCode,
		ps.LastPurchaseCost, ps.ReferenceCost, ps.IsPrimary, ps.CreatedAt, ps.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product supplier: %w", mapError(err))
	}
	return nil
}

func (r *ProductSupplierRepo) GetByID(ctx context.Context, id string) (*entity.ProductSupplier, error) {
	ps, err := scanProductSupplier(r.q.QueryRow(ctx, `SELECT `+productSupplierColumns+` FROM product_suppliers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product supplier: %w", mapError(err))
	}
	return ps, nil
}

// Update actualiza código y costos; producto y proveedor no cambian.
func (r *ProductSupplierRepo) Update(ctx context.Context, ps *entity.ProductSupplier) error {
	query := `
		UPDATE product_suppliers
		SET supplier_code = $2, last_purchase_cost = $3, reference_cost = $4, is_primary = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, ps.ID, ps.SupplierCode, ps.LastPurchaseCost, ps.ReferenceCost, ps.IsPrimary, ps.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update product supplier: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByProduct lista los proveedores de un producto, el principal primero.
func (r *ProductSupplierRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.ProductSupplier, error) {
	query := `
		SELECT ps.id, ps.product_id, ps.supplier_id, ps.supplier_code, ps.last_purchase_cost, ps.reference_cost,
		       ps.is_primary, ps.created_at, ps.updated_at
		FROM product_suppliers ps JOIN suppliers s ON s.id = ps.supplier_id
		WHERE ps.product_id = $1
		ORDER BY ps.is_primary DESC, s.name`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list product suppliers: %w", mapError(err))
	}
	defer rows.Close()
	var list []*entity.ProductSupplier
	for rows.Next() {
		ps, err := scanProductSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product supplier: %w", err)
		}
		list = append(list, ps)
	}
	return list, rows.Err()
}

func (r *ProductSupplierRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM product_suppliers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product supplier: %w", mapDeleteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanProductSupplier(row rowScanner) (*entity.ProductSupplier, error) {
	var ps entity.ProductSupplier
	err := row.Scan(&ps.ID, &ps.ProductID, &ps.SupplierID, &ps.SupplierCode, &ps.LastPurchaseCost,
		&ps.ReferenceCost, &ps.IsPrimary, &ps.CreatedAt, &ps.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ps, nil
}
