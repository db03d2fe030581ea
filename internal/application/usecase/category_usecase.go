package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/google/uuid"
)

// CategoryUseCase CRUD del árbol de categorías. Un padre debe existir y no puede ser descendiente.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría, raíz si no trae padre.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := uc.requireParent(ctx, "", in.ParentID); err != nil {
		return nil, err
	}
	now := time.Now()
	category := &entity.Category{
		ID:        uuid.New().String(),
		ParentID:  in.ParentID,
		Name:      in.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// GetByID obtiene una categoría. Devuelve nil si no existe.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Update renombra o mueve una categoría.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	category, err := uc.repo.GetByID(ctx, id)
	if err != nil || category == nil {
		return nil, err
	}
	if in.Name != nil {
		category.Name = *in.Name
	}
	switch {
	case in.MakeRoot:
		category.ParentID = nil
	case in.ParentID != nil:
		if err := uc.requireParent(ctx, id, in.ParentID); err != nil {
			return nil, err
		}
		category.ParentID = in.ParentID
	}
	category.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, category); err != nil {
		return nil, err
	}
	return toCategoryResponse(category), nil
}

// Delete elimina una categoría; las hijas quedan como raíz.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// List lista categorías. parentID "root" devuelve las raíces; otro valor, las hijas de esa categoría.
func (uc *CategoryUseCase) List(ctx context.Context, parentID string, page dto.PageRequest) (*dto.CategoryListResponse, error) {
	page.DefaultPage()
	var (
		list []*entity.Category
		err  error
	)
	switch parentID {
	case "":
		list, err = uc.repo.List(ctx, page.Limit, page.Offset)
	case "root":
		list, err = uc.repo.ListByParent(ctx, "")
	default:
		list, err = uc.repo.ListByParent(ctx, parentID)
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// requireParent valida que parentID exista y que no sea id ni uno de sus descendientes.
func (uc *CategoryUseCase) requireParent(ctx context.Context, id string, parentID *string) error {
	if parentID == nil {
		return nil
	}
	seen := map[string]struct{}{}
	for cur := parentID; cur != nil; {
		if *cur == id {
			return fmt.Errorf("la categoría no puede ser su propio ancestro: %w", domain.ErrInvalidInput)
		}
		if _, ok := seen[*cur]; ok {
			break
		}
		seen[*cur] = struct{}{}
		c, err := uc.repo.GetByID(ctx, *cur)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("categoría padre %s: %w", *cur, domain.ErrNotFound)
		}
		cur = c.ParentID
	}
	return nil
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
