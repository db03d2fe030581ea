package repository

import (
	"context"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
)

// MovementFilter filtros para listar movimientos.
type MovementFilter struct {
	Kind        entity.MovementKind
	Status      entity.MovementStatus // vacío = todos
	WarehouseID string
	From, To    *time.Time
	Limit       int
	Offset      int
}

// MovementRepository define el puerto de persistencia para movimientos y sus líneas.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate obtiene la cabecera y bloquea su fila (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	UpdateHeader(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, int, error)

	ListLines(ctx context.Context, movementID string) ([]entity.MovementLine, error)
	// ReplaceLines borra las líneas actuales e inserta lines.
	ReplaceLines(ctx context.Context, movementID string, lines []entity.MovementLine) error

	// MarkPosted transiciona DRAFT -> POSTED. Devuelve domain.ErrInvalidState si ya no estaba en DRAFT.
	MarkPosted(ctx context.Context, id string, postedAt time.Time) error
}
