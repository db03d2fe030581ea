package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/jackc/pgx/v5"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo movimientos (entradas y salidas) y sus líneas sobre PostgreSQL (usable con pool o tx).
type MovementRepo struct {
	q Querier
}

// NewMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementRepository(q Querier) *MovementRepo {
	return &MovementRepo{q: q}
}

const movementColumns = `id, kind, status, date, warehouse_id, reference, observation, created_by,
	posted_at, supplier_id, destination, created_at, updated_at`

// Create persiste la cabecera y sus líneas. Llamar dentro de una tx para que sea atómico.
func (r *MovementRepo) Create(ctx context.Context, m *entity.Movement) error {
	query := `
		INSERT INTO movements (` + movementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.Kind, m.Status, m.Date, m.WarehouseID, m.Reference, m.Observation, m.CreatedBy,
		m.PostedAt, m.SupplierID, m.Destination, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", mapError(err))
	}
	return r.insertLines(ctx, m.ID, m.Lines)
}

// GetByID obtiene la cabecera (sin líneas). nil si no existe.
func (r *MovementRepo) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1`, id)
}

// GetForUpdate obtiene la cabecera bloqueando su fila hasta el fin de la tx.
func (r *MovementRepo) GetForUpdate(ctx context.Context, id string) (*entity.Movement, error) {
	return r.getOne(ctx, `SELECT `+movementColumns+` FROM movements WHERE id = $1 FOR UPDATE`, id)
}

func (r *MovementRepo) getOne(ctx context.Context, query, id string) (*entity.Movement, error) {
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", mapError(err))
	}
	return m, nil
}

// UpdateHeader actualiza los campos editables de un BORRADOR.
func (r *MovementRepo) UpdateHeader(ctx context.Context, m *entity.Movement) error {
	query := `
		UPDATE movements
		SET date = $2, warehouse_id = $3, reference = $4, observation = $5,
		    supplier_id = $6, destination = $7, updated_at = $8
		WHERE id = $1 AND status = 'DRAFT'`
	tag, err := r.q.Exec(ctx, query,
		m.ID, m.Date, m.WarehouseID, m.Reference, m.Observation, m.SupplierID, m.Destination, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update movement: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostedImmutable
	}
	return nil
}

// Delete elimina un BORRADOR; las líneas caen por ON DELETE CASCADE.
func (r *MovementRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM movements WHERE id = $1 AND status = 'DRAFT'`, id)
	if err != nil {
		return fmt.Errorf("delete movement: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPostedImmutable
	}
	return nil
}

// List lista cabeceras con filtros, más recientes primero, y devuelve el total sin paginar.
func (r *MovementRepo) List(ctx context.Context, f repository.MovementFilter) ([]*entity.Movement, int, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.Kind != "" {
		add("kind = $%d", f.Kind)
	}
	if f.Status != "" {
		add("status = $%d", f.Status)
	}
	if f.WarehouseID != "" {
		add("warehouse_id = $%d", f.WarehouseID)
	}
	if f.From != nil {
		add("date >= $%d", *f.From)
	}
	if f.To != nil {
		add("date < $%d", *f.To)
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM movements`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count movements: %w", mapError(err))
	}

	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM movements%s ORDER BY date DESC, created_at DESC LIMIT $%d OFFSET $%d`,
		movementColumns, where, len(args)-1, len(args))
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list movements: %w", mapError(err))
	}
	defer rows.Close()
	var list []*entity.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, m)
	}
	return list, total, rows.Err()
}

// ListLines devuelve las líneas en el orden en que fueron cargadas.
func (r *MovementRepo) ListLines(ctx context.Context, movementID string) ([]entity.MovementLine, error) {
	query := `
		SELECT id, movement_id, product_id, quantity, unit_cost, lot, expires_at, observation, created_at, updated_at
		FROM movement_lines WHERE movement_id = $1
		ORDER BY position`
	rows, err := r.q.Query(ctx, query, movementID)
	if err != nil {
		return nil, fmt.Errorf("list movement lines: %w", mapError(err))
	}
	defer rows.Close()
	var lines []entity.MovementLine
	for rows.Next() {
		var l entity.MovementLine
		if err := rows.Scan(&l.ID, &l.MovementID, &l.ProductID, &l.Quantity, &l.UnitCost, &l.Lot,
			&l.ExpiresAt, &l.Observation, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan movement line: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

// ReplaceLines borra las líneas actuales e inserta lines.
func (r *MovementRepo) ReplaceLines(ctx context.Context, movementID string, lines []entity.MovementLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM movement_lines WHERE movement_id = $1`, movementID); err != nil {
		return fmt.Errorf("delete movement lines: %w", mapError(err))
	}
	return r.insertLines(ctx, movementID, lines)
}

// MarkPosted DRAFT -> POSTED. Si la fila ya no está en DRAFT devuelve domain.ErrInvalidState.
func (r *MovementRepo) MarkPosted(ctx context.Context, id string, postedAt time.Time) error {
	query := `
		UPDATE movements SET status = 'POSTED', posted_at = $2, updated_at = $2
		WHERE id = $1 AND status = 'DRAFT'`
	tag, err := r.q.Exec(ctx, query, id, postedAt)
	if err != nil {
		return fmt.Errorf("mark posted: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInvalidState
	}
	return nil
}

func (r *MovementRepo) insertLines(ctx context.Context, movementID string, lines []entity.MovementLine) error {
	if len(lines) == 0 {
		return nil
	}
	query := `
		INSERT INTO movement_lines (id, movement_id, position, product_id, quantity, unit_cost, lot, expires_at, observation, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	batch := &pgx.Batch{}
	for i, l := range lines {
		batch.Queue(query, l.ID, movementID, i, l.ProductID, l.Quantity, l.UnitCost, l.Lot,
			l.ExpiresAt, l.Observation, l.CreatedAt, l.UpdatedAt)
	}
	br := r.q.SendBatch(ctx, batch)
	defer br.Close()
	for range lines {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("insert movement line: %w", mapError(err))
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMovement(row rowScanner) (*entity.Movement, error) {
	var m entity.Movement
	err := row.Scan(&m.ID, &m.Kind, &m.Status, &m.Date, &m.WarehouseID, &m.Reference, &m.Observation,
		&m.CreatedBy, &m.PostedAt, &m.SupplierID, &m.Destination, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}
