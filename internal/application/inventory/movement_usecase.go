package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/inventory"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/google/uuid"
)

// MovementUseCase edición de movimientos en BORRADOR (crear, modificar, eliminar, consultar).
// Un movimiento POSTEADO es inmutable.
type MovementUseCase struct {
	txRunner      TxRunner
	movRepo       repository.MovementRepository
	productRepo   repository.ProductRepository
	warehouseRepo repository.WarehouseRepository
	supplierRepo  repository.SupplierRepository
}

// NewMovementUseCase construye el caso de uso.
func NewMovementUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	warehouseRepo repository.WarehouseRepository,
	supplierRepo repository.SupplierRepository,
) *MovementUseCase {
	return &MovementUseCase{
		txRunner:      txRunner,
		movRepo:       movRepo,
		productRepo:   productRepo,
		warehouseRepo: warehouseRepo,
		supplierRepo:  supplierRepo,
	}
}

// Create crea un movimiento en BORRADOR con sus líneas (cabecera y líneas en la misma transacción).
func (uc *MovementUseCase) Create(ctx context.Context, kind entity.MovementKind, userID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if !kind.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if err := checkKindFields(kind, in.SupplierID, in.Destination); err != nil {
		return nil, err
	}
	wh, err := uc.requireWarehouse(ctx, in.WarehouseID)
	if err != nil {
		return nil, err
	}
	if err := uc.requireSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	now := time.Now()
	mov := &entity.Movement{
		ID:          uuid.New().String(),
		Kind:        kind,
		Status:      entity.StatusDraft,
		Date:        now,
		WarehouseID: in.WarehouseID,
		Reference:   in.Reference,
		Observation: in.Observation,
		SupplierID:  in.SupplierID,
		Destination: in.Destination,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Date != nil {
		mov.Date = *in.Date
	}
	if userID != "" {
		mov.CreatedBy = &userID
	}

	var products map[string]*entity.Product
	err = uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockLedger,
		productRepo repository.ProductRepository,
	) error {
		var err error
		mov.Lines, products, err = buildLines(ctx, productRepo, mov.ID, in.Lines, now)
		if err != nil {
			return err
		}
		return movRepo.Create(ctx, mov)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov, products, wh.Name), nil
}

// Update modifica la cabecera de un BORRADOR y, si in.Lines viene informado, reemplaza todas sus líneas.
func (uc *MovementUseCase) Update(ctx context.Context, kind entity.MovementKind, id string, in dto.UpdateMovementRequest) (*dto.MovementResponse, error) {
	if !kind.Valid() || id == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.WarehouseID != nil {
		if _, err := uc.requireWarehouse(ctx, *in.WarehouseID); err != nil {
			return nil, err
		}
	}
	if err := uc.requireSupplier(ctx, in.SupplierID); err != nil {
		return nil, err
	}

	var (
		mov      *entity.Movement
		products map[string]*entity.Product
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockLedger,
		productRepo repository.ProductRepository,
	) error {
		var err error
		mov, err = movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil || mov.Kind != kind {
			return domain.ErrNotFound
		}
		if !mov.IsDraft() {
			return domain.ErrPostedImmutable
		}

		if in.WarehouseID != nil {
			mov.WarehouseID = *in.WarehouseID
		}
		if in.Date != nil {
			mov.Date = *in.Date
		}
		if in.Reference != nil {
			mov.Reference = *in.Reference
		}
		if in.Observation != nil {
			mov.Observation = *in.Observation
		}
		if in.SupplierID != nil {
			mov.SupplierID = in.SupplierID
		}
		if in.Destination != nil {
			mov.Destination = *in.Destination
		}
		if err := checkKindFields(kind, mov.SupplierID, mov.Destination); err != nil {
			return err
		}
		now := time.Now()
		mov.UpdatedAt = now
		if err := movRepo.UpdateHeader(ctx, mov); err != nil {
			return err
		}

		if in.Lines != nil {
			mov.Lines, products, err = buildLines(ctx, productRepo, mov.ID, in.Lines, now)
			if err != nil {
				return err
			}
			return movRepo.ReplaceLines(ctx, mov.ID, mov.Lines)
		}
		mov.Lines, err = movRepo.ListLines(ctx, mov.ID)
		if err != nil {
			return err
		}
		products, err = productRepo.GetByIDs(ctx, inventory.DistinctProductIDs(mov.Lines))
		return err
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov, products, uc.warehouseName(ctx, mov.WarehouseID)), nil
}

// Delete elimina un movimiento en BORRADOR junto con sus líneas.
func (uc *MovementUseCase) Delete(ctx context.Context, kind entity.MovementKind, id string) error {
	if !kind.Valid() || id == "" {
		return domain.ErrInvalidInput
	}
	return uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		_ repository.StockLedger,
		_ repository.ProductRepository,
	) error {
		mov, err := movRepo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if mov == nil || mov.Kind != kind {
			return domain.ErrNotFound
		}
		if !mov.IsDraft() {
			return domain.ErrPostedImmutable
		}
		return movRepo.Delete(ctx, id)
	})
}

// GetByID obtiene un movimiento con sus líneas. Devuelve domain.ErrNotFound si no existe o es de otro tipo.
func (uc *MovementUseCase) GetByID(ctx context.Context, kind entity.MovementKind, id string) (*dto.MovementResponse, error) {
	mov, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if mov == nil || mov.Kind != kind {
		return nil, domain.ErrNotFound
	}
	mov.Lines, err = uc.movRepo.ListLines(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := uc.productRepo.GetByIDs(ctx, inventory.DistinctProductIDs(mov.Lines))
	if err != nil {
		return nil, err
	}
	return toMovementResponse(mov, products, uc.warehouseName(ctx, mov.WarehouseID)), nil
}

// List lista movimientos de un tipo (sin líneas), más recientes primero.
func (uc *MovementUseCase) List(ctx context.Context, kind entity.MovementKind, status entity.MovementStatus, warehouseID string, page dto.PageRequest) (*dto.MovementListResponse, error) {
	page.DefaultPage()
	list, total, err := uc.movRepo.List(ctx, repository.MovementFilter{
		Kind:        kind,
		Status:      status,
		WarehouseID: warehouseID,
		Limit:       page.Limit,
		Offset:      page.Offset,
	})
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		name, ok := names[m.WarehouseID]
		if !ok {
			name = uc.warehouseName(ctx, m.WarehouseID)
			names[m.WarehouseID] = name
		}
		items = append(items, *toMovementResponse(m, nil, name))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func (uc *MovementUseCase) requireWarehouse(ctx context.Context, id string) (*entity.Warehouse, error) {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if wh == nil {
		return nil, fmt.Errorf("bodega %s: %w", id, domain.ErrNotFound)
	}
	return wh, nil
}

func (uc *MovementUseCase) requireSupplier(ctx context.Context, id *string) error {
	if id == nil {
		return nil
	}
	sup, err := uc.supplierRepo.GetByID(ctx, *id)
	if err != nil {
		return err
	}
	if sup == nil {
		return fmt.Errorf("proveedor %s: %w", *id, domain.ErrNotFound)
	}
	return nil
}

func (uc *MovementUseCase) warehouseName(ctx context.Context, id string) string {
	wh, err := uc.warehouseRepo.GetByID(ctx, id)
	if err != nil || wh == nil {
		return ""
	}
	return wh.Name
}

// checkKindFields: proveedor solo en entradas, destino solo en salidas.
func checkKindFields(kind entity.MovementKind, supplierID *string, destination string) error {
	if kind == entity.KindOutbound && supplierID != nil {
		return fmt.Errorf("supplier_id solo aplica a entradas: %w", domain.ErrInvalidInput)
	}
	if kind == entity.KindInbound && destination != "" {
		return fmt.Errorf("destination solo aplica a salidas: %w", domain.ErrInvalidInput)
	}
	return nil
}

// buildLines convierte las líneas del request aplicando las mismas reglas que el posteo.
func buildLines(
	ctx context.Context,
	productRepo repository.ProductRepository,
	movementID string,
	in []dto.MovementLineRequest,
	now time.Time,
) ([]entity.MovementLine, map[string]*entity.Product, error) {
	lines := make([]entity.MovementLine, 0, len(in))
	for _, l := range in {
		line := entity.MovementLine{
			ID:          uuid.New().String(),
			MovementID:  movementID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Lot:         l.Lot,
			Observation: l.Observation,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := inventory.ValidateCost("unit_cost", l.UnitCost); err != nil {
			return nil, nil, err
		}
		if l.ExpiresAt != "" {
			t, err := time.Parse(dateLayout, l.ExpiresAt)
			if err != nil {
				return nil, nil, fmt.Errorf("expires_at: %w", domain.ErrInvalidInput)
			}
			line.ExpiresAt = &t
		}
		lines = append(lines, line)
	}

	products, err := productRepo.GetByIDs(ctx, inventory.DistinctProductIDs(lines))
	if err != nil {
		return nil, nil, err
	}
	for _, l := range lines {
		if err := inventory.ValidateLine(l, products[l.ProductID]); err != nil {
			return nil, nil, err
		}
	}
	return lines, products, nil
}
