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

var _ repository.UnitOfMeasureRepository = (*UnitOfMeasureRepo)(nil)

// UnitOfMeasureRepo unidades de medida sobre PostgreSQL.
type UnitOfMeasureRepo struct {
	q Querier
}

// NewUnitOfMeasureRepository construye el adaptador. Pasar pool o tx (Querier).
func NewUnitOfMeasureRepository(q Querier) *UnitOfMeasureRepo {
	return &UnitOfMeasureRepo{q: q}
}

const unitColumns = `id, name, symbol, created_at, updated_at`

func (r *UnitOfMeasureRepo) Create(ctx context.Context, u *entity.UnitOfMeasure) error {
	_, err := r.q.Exec(ctx, `INSERT INTO units_of_measure (`+unitColumns+`) VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Name, u.Symbol, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert unit of measure: %w", err)
	}
	return nil
}

func (r *UnitOfMeasureRepo) GetByID(ctx context.Context, id string) (*entity.UnitOfMeasure, error) {
	var u entity.UnitOfMeasure
	err := r.q.QueryRow(ctx, `SELECT `+unitColumns+` FROM units_of_measure WHERE id = $1`, id).
		Scan(&u.ID, &u.Name, &u.Symbol, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unit of measure: %w", mapError(err))
	}
	return &u, nil
}

func (r *UnitOfMeasureRepo) Update(ctx context.Context, u *entity.UnitOfMeasure) error {
	tag, err := r.q.Exec(ctx, `UPDATE units_of_measure SET name = $2, symbol = $3, updated_at = $4 WHERE id = $1`,
		u.ID, u.Name, u.Symbol, u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update unit of measure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *UnitOfMeasureRepo) List(ctx context.Context, limit, offset int) ([]*entity.UnitOfMeasure, error) {
	rows, err := r.q.Query(ctx, `SELECT `+unitColumns+` FROM units_of_measure ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list units of measure: %w", err)
	}
	defer rows.Close()
	var list []*entity.UnitOfMeasure
	for rows.Next() {
		var u entity.UnitOfMeasure
		if err := rows.Scan(&u.ID, &u.Name, &u.Symbol, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan unit of measure: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// Delete falla con domain.ErrConflict mientras algún producto use la unidad (FK sin cascada).
func (r *UnitOfMeasureRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM units_of_measure WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete unit of measure: %w", mapDeleteError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
