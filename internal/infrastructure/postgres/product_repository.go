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

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

const productInsertColumns = `id, sku, name, description, barcode, unit_measure_id, brand_id, allows_fraction,
	active, min_stock, max_stock, location, created_at, updated_at`

// productSelect incluye las categorías agregadas desde product_categories.
const productSelect = `
	SELECT p.id, p.sku, p.name, p.description, p.barcode, p.unit_measure_id, p.brand_id, p.allows_fraction,
	       p.active, p.min_stock, p.max_stock, p.location, p.created_at, p.updated_at,
	       COALESCE((SELECT array_agg(pc.category_id::text ORDER BY pc.category_id)
	                 FROM product_categories pc WHERE pc.product_id = p.id), '{}')
	FROM products p`

const insertProductCategories = `
	INSERT INTO product_categories (product_id, category_id)
	SELECT $1::uuid, c::uuid FROM unnest($2::text[]) AS c`

// Create persiste un nuevo producto con sus categorías (un batch: transacción implícita).
func (r *ProductRepo) Create(ctx context.Context, p *entity.Product) error {
	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO products (`+productInsertColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		p.ID, p.SKU, p.Name, p.Description, p.Barcode, p.UnitMeasureID, p.BrandID, p.AllowsFraction,
		p.Active, p.MinStock, p.MaxStock, p.Location, p.CreatedAt, p.UpdatedAt,
	)
	batch.Queue(insertProductCategories, p.ID, p.CategoryIDs)

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			if isUniqueViolation(err) && i == 0 {
				return domain.ErrDuplicate
			}
			return fmt.Errorf("insert product: %w", mapError(err))
		}
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.id = $1`, id)
}

// GetBySKU obtiene un producto por SKU.
func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	return r.getOne(ctx, productSelect+` WHERE p.sku = $1`, sku)
}

func (r *ProductRepo) getOne(ctx context.Context, query string, arg string) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", mapError(err))
	}
	return p, nil
}

// GetByIDs devuelve los productos encontrados indexados por ID; los ausentes no aparecen.
func (r *ProductRepo) GetByIDs(ctx context.Context, ids []string) (map[string]*entity.Product, error) {
	out := make(map[string]*entity.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := r.q.Query(ctx, productSelect+` WHERE p.id = ANY($1::text[]::uuid[])`, ids)
	if err != nil {
		return nil, fmt.Errorf("get products: %w", mapError(err))
	}
	defer rows.Close()
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		out[p.ID] = p
	}
	return out, rows.Err()
}

// Update actualiza un producto y reemplaza sus categorías. El SKU no se toca.
func (r *ProductRepo) Update(ctx context.Context, p *entity.Product) error {
	batch := &pgx.Batch{}
	batch.Queue(`
		UPDATE products
		SET name = $2, description = $3, barcode = $4, unit_measure_id = $5, brand_id = $6,
		    allows_fraction = $7, active = $8, min_stock = $9, max_stock = $10, location = $11, updated_at = $12
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Barcode, p.UnitMeasureID, p.BrandID,
		p.AllowsFraction, p.Active, p.MinStock, p.MaxStock, p.Location, p.UpdatedAt,
	)
	batch.Queue(`DELETE FROM product_categories WHERE product_id = $1`, p.ID)
	batch.Queue(insertProductCategories, p.ID, p.CategoryIDs)

	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	tag, err := br.Exec()
	if err != nil {
		return fmt.Errorf("update product: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	for i := 1; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("update product categories: %w", mapError(err))
		}
	}
	return nil
}

// List lista productos ordenados por SKU.
func (r *ProductRepo) List(ctx context.Context, limit, offset int) ([]*entity.Product, error) {
	rows, err := r.q.Query(ctx, productSelect+` ORDER BY p.sku LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.Barcode, &p.UnitMeasureID, &p.BrandID,
		&p.AllowsFraction, &p.Active, &p.MinStock, &p.MaxStock, &p.Location, &p.CreatedAt, &p.UpdatedAt,
		&p.CategoryIDs)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
