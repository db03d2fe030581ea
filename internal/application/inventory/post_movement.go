package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/inventory"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/rs/zerolog"
)

// PostMovementUseCase postea movimientos en BORRADOR: valida las líneas, bloquea las filas de stock
// afectadas (SELECT FOR UPDATE) y aplica los deltas y el cambio de estado en una sola transacción.
type PostMovementUseCase struct {
	txRunner      TxRunner
	warehouseRepo repository.WarehouseRepository
	metrics       PostingMetrics
	log           zerolog.Logger
	now           func() time.Time
}

// NewPostMovementUseCase construye el caso de uso. metrics puede ser nil.
func NewPostMovementUseCase(
	txRunner TxRunner,
	warehouseRepo repository.WarehouseRepository,
	metrics PostingMetrics,
	log zerolog.Logger,
) *PostMovementUseCase {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	return &PostMovementUseCase{
		txRunner:      txRunner,
		warehouseRepo: warehouseRepo,
		metrics:       metrics,
		log:           log,
		now:           time.Now,
	}
}

// Post transiciona el movimiento DRAFT -> POSTED aplicando su efecto sobre el stock.
// Cualquier error revierte la transacción completa y el movimiento queda en BORRADOR.
func (uc *PostMovementUseCase) Post(ctx context.Context, kind entity.MovementKind, movementID string) (*dto.MovementResponse, error) {
	if !kind.Valid() || movementID == "" {
		return nil, domain.ErrInvalidInput
	}
	start := time.Now()

	var (
		posted   *entity.Movement
		products map[string]*entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		ledger repository.StockLedger,
		productRepo repository.ProductRepository,
	) error {
		// Bloquea la cabecera: dos posteos del mismo movimiento se serializan aquí
		mov, err := movRepo.GetForUpdate(ctx, movementID)
		if err != nil {
			return err
		}
		if mov == nil || mov.Kind != kind {
			return domain.ErrNotFound
		}
		if !mov.IsDraft() {
			return domain.ErrInvalidState
		}

		lines, err := movRepo.ListLines(ctx, mov.ID)
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return domain.ErrEmptyMovement
		}

		productIDs := inventory.DistinctProductIDs(lines)
		products, err = productRepo.GetByIDs(ctx, productIDs)
		if err != nil {
			return err
		}
		for _, l := range lines {
			if err := inventory.ValidateLine(l, products[l.ProductID]); err != nil {
				return err
			}
		}

		// Todas las filas quedan bloqueadas antes de aplicar la primera línea
		entries, err := ledger.GetOrCreateLocked(ctx, mov.WarehouseID, productIDs)
		if err != nil {
			return err
		}
		for _, l := range lines {
			entry, ok := entries[l.ProductID]
			if !ok {
				return fmt.Errorf("stock %s/%s no bloqueado", mov.WarehouseID, l.ProductID)
			}
			delta, err := inventory.LineDelta(kind, products[l.ProductID].SKU, entry.Quantity, l.Quantity)
			if err != nil {
				return err
			}
			if err := ledger.Adjust(ctx, entry, delta); err != nil {
				return err
			}
		}

		postedAt := uc.now()
		if err := movRepo.MarkPosted(ctx, mov.ID, postedAt); err != nil {
			return err
		}
		mov.Status = entity.StatusPosted
		mov.PostedAt = &postedAt
		mov.UpdatedAt = postedAt
		mov.Lines = lines
		posted = mov
		return nil
	})

	elapsed := time.Since(start)
	if err != nil {
		result := classify(err)
		uc.metrics.ObservePost(kind, result, elapsed)
		ev := uc.log.Warn()
		if result == ResultError {
			ev = uc.log.Error()
		}
		ev.Err(err).
			Str("movement_id", movementID).
			Str("kind", string(kind)).
			Str("result", result).
			Msg("posteo rechazado")
		return nil, err
	}
	uc.metrics.ObservePost(kind, ResultPosted, elapsed)
	uc.log.Info().
		Str("movement_id", posted.ID).
		Str("kind", string(kind)).
		Str("warehouse_id", posted.WarehouseID).
		Int("lines", len(posted.Lines)).
		Dur("elapsed", elapsed).
		Msg("movimiento posteado")

	warehouseName := ""
	if wh, err := uc.warehouseRepo.GetByID(ctx, posted.WarehouseID); err == nil && wh != nil {
		warehouseName = wh.Name
	}
	return toMovementResponse(posted, products, warehouseName), nil
}

func classify(err error) string {
	switch {
	case errors.Is(err, domain.ErrConcurrencyTimeout):
		return ResultRetryable
	case domain.IsPostingRejection(err), errors.Is(err, domain.ErrNotFound):
		return ResultRejected
	default:
		return ResultError
	}
}
