package usecase

import (
	"context"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/google/uuid"
)

// UnitOfMeasureUseCase CRUD de unidades de medida.
type UnitOfMeasureUseCase struct {
	repo repository.UnitOfMeasureRepository
}

// NewUnitOfMeasureUseCase construye el caso de uso.
func NewUnitOfMeasureUseCase(repo repository.UnitOfMeasureRepository) *UnitOfMeasureUseCase {
	return &UnitOfMeasureUseCase{repo: repo}
}

// Create crea una unidad de medida.
func (uc *UnitOfMeasureUseCase) Create(ctx context.Context, in dto.UnitOfMeasureRequest) (*dto.UnitOfMeasureResponse, error) {
	now := time.Now()
	unit := &entity.UnitOfMeasure{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Symbol:    in.Symbol,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// GetByID devuelve nil si no existe.
func (uc *UnitOfMeasureUseCase) GetByID(ctx context.Context, id string) (*dto.UnitOfMeasureResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil || unit == nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// Update reemplaza nombre y símbolo.
func (uc *UnitOfMeasureUseCase) Update(ctx context.Context, id string, in dto.UnitOfMeasureRequest) (*dto.UnitOfMeasureResponse, error) {
	unit, err := uc.repo.GetByID(ctx, id)
	if err != nil || unit == nil {
		return nil, err
	}
	unit.Name, unit.Symbol = in.Name, in.Symbol
	unit.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, unit); err != nil {
		return nil, err
	}
	return toUnitResponse(unit), nil
}

// Delete falla con domain.ErrConflict si algún producto usa la unidad.
func (uc *UnitOfMeasureUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista unidades por nombre.
func (uc *UnitOfMeasureUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UnitOfMeasureListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnitOfMeasureResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUnitResponse(u))
	}
	return &dto.UnitOfMeasureListResponse{Items: items, Page: dto.PageResponse{Limit: page.Limit, Offset: page.Offset}}, nil
}

func toUnitResponse(u *entity.UnitOfMeasure) *dto.UnitOfMeasureResponse {
	return &dto.UnitOfMeasureResponse{
		ID:        u.ID,
		Name:      u.Name,
		Symbol:    u.Symbol,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
