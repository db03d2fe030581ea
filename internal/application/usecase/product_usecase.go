package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductUseCase casos de uso CRUD para productos. El stock se maneja vía movimientos.
// Unidad, marca y categorías referenciadas deben existir.
type ProductUseCase struct {
	repo       repository.ProductRepository
	units      repository.UnitOfMeasureRepository
	brands     repository.BrandRepository
	categories repository.CategoryRepository
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	units repository.UnitOfMeasureRepository,
	brands repository.BrandRepository,
	categories repository.CategoryRepository,
) *ProductUseCase {
	return &ProductUseCase{repo: repo, units: units, brands: brands, categories: categories}
}

// Create crea un nuevo producto. Por defecto admite fracciones.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("sku %s: %w", in.SKU, domain.ErrDuplicate)
	}
	if err := checkStockRange(in.MinStock, in.MaxStock); err != nil {
		return nil, err
	}
	categoryIDs := normalizeIDs(in.CategoryIDs)
	if err := uc.checkRefs(ctx, in.UnitMeasureID, in.BrandID, categoryIDs); err != nil {
		return nil, err
	}
	allowsFraction := true
	if in.AllowsFraction != nil {
		allowsFraction = *in.AllowsFraction
	}
	now := time.Now()
	product := &entity.Product{
		ID:             uuid.New().String(),
		SKU:            in.SKU,
		Name:           in.Name,
		Description:    in.Description,
		Barcode:        in.Barcode,
		UnitMeasureID:  in.UnitMeasureID,
		BrandID:        in.BrandID,
		CategoryIDs:    categoryIDs,
		AllowsFraction: allowsFraction,
		Active:         true,
		MinStock:       in.MinStock,
		MaxStock:       in.MaxStock,
		Location:       in.Location,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := uc.repo.Create(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto por ID. Devuelve nil si no existe.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	return toProductResponse(product), nil
}

// Update actualiza un producto. No permite modificar el SKU ni el stock.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, nil
	}
	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Barcode != nil {
		product.Barcode = *in.Barcode
	}
	if in.UnitMeasureID != nil {
		product.UnitMeasureID = *in.UnitMeasureID
	}
	if in.BrandID != nil {
		product.BrandID = in.BrandID
	}
	if in.ClearBrand {
		product.BrandID = nil
	}
	if in.CategoryIDs != nil {
		product.CategoryIDs = normalizeIDs(in.CategoryIDs)
	}
	if in.AllowsFraction != nil {
		product.AllowsFraction = *in.AllowsFraction
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.MaxStock != nil {
		product.MaxStock = *in.MaxStock
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	if err := checkStockRange(product.MinStock, product.MaxStock); err != nil {
		return nil, err
	}
	if err := uc.checkRefs(ctx, product.UnitMeasureID, product.BrandID, product.CategoryIDs); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos con paginación.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// checkRefs exige que unidad, marca y categorías existan.
func (uc *ProductUseCase) checkRefs(ctx context.Context, unitID string, brandID *string, categoryIDs []string) error {
	unit, err := uc.units.GetByID(ctx, unitID)
	if err != nil {
		return err
	}
	if unit == nil {
		return fmt.Errorf("unidad de medida %s: %w", unitID, domain.ErrNotFound)
	}
	if brandID != nil {
		brand, err := uc.brands.GetByID(ctx, *brandID)
		if err != nil {
			return err
		}
		if brand == nil {
			return fmt.Errorf("marca %s: %w", *brandID, domain.ErrNotFound)
		}
	}
	for _, id := range categoryIDs {
		c, err := uc.categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return fmt.Errorf("categoría %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// normalizeIDs quita repetidos y ordena.
func normalizeIDs(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// checkStockRange: mínimos no negativos y max 0 = sin tope.
func checkStockRange(minStock, maxStock decimal.Decimal) error {
	if minStock.IsNegative() || maxStock.IsNegative() {
		return fmt.Errorf("min_stock/max_stock negativos: %w", domain.ErrInvalidInput)
	}
	if !maxStock.IsZero() && maxStock.LessThan(minStock) {
		return fmt.Errorf("max_stock menor que min_stock: %w", domain.ErrInvalidInput)
	}
	return nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	if p == nil {
		return nil
	}
	return &dto.ProductResponse{
		ID:             p.ID,
		SKU:            p.SKU,
		Name:           p.Name,
		Description:    p.Description,
		Barcode:        p.Barcode,
		UnitMeasureID:  p.UnitMeasureID,
		BrandID:        p.BrandID,
		CategoryIDs:    categoryIDsOrEmpty(p.CategoryIDs),
		AllowsFraction: p.AllowsFraction,
		Active:         p.Active,
		MinStock:       p.MinStock,
		MaxStock:       p.MaxStock,
		Location:       p.Location,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func categoryIDsOrEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
