package usecase

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
	"github.com/shopspring/decimal"
)

// ProductSupplierUseCase proveedores de cada producto con su código y costos.
type ProductSupplierUseCase struct {
	repo      repository.ProductSupplierRepository
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
}

// NewProductSupplierUseCase construye el caso de uso.
func NewProductSupplierUseCase(
	repo repository.ProductSupplierRepository,
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
) *ProductSupplierUseCase {
	return &ProductSupplierUseCase{repo: repo, products: products, suppliers: suppliers}
}

// Create vincula un proveedor existente a un producto existente.
func (uc *ProductSupplierUseCase) Create(ctx context.Context, in dto.CreateProductSupplierRequest) (*dto.ProductSupplierResponse, error) {
	if err := checkCosts(in.LastPurchaseCost, in.ReferenceCost); err != nil {
		return nil, err
	}
	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("producto %s: %w", in.ProductID, domain.ErrNotFound)
	}
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, fmt.Errorf("proveedor %s: %w", in.SupplierID, domain.ErrNotFound)
	}

	now := time.Now()
	ps := &entity.ProductSupplier{
		ID:               uuid.New().String(),
		ProductID:        in.ProductID,
		SupplierID:       in.SupplierID,
		SupplierCode:     in.SupplierCode,
		LastPurchaseCost: in.LastPurchaseCost,
		ReferenceCost:    in.ReferenceCost,
		IsPrimary:        in.IsPrimary,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := uc.repo.Create(ctx, ps); err != nil {
		return nil, err
	}
	return toProductSupplierResponse(ps), nil
}

// Update modifica código, costos o si es el principal. Devuelve nil si no existe.
func (uc *ProductSupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateProductSupplierRequest) (*dto.ProductSupplierResponse, error) {
	ps, err := uc.repo.GetByID(ctx, id)
	if err != nil || ps == nil {
		return nil, err
	}
	if in.SupplierCode != nil {
		ps.SupplierCode = *in.SupplierCode
	}
	if in.LastPurchaseCost != nil {
		ps.LastPurchaseCost = *in.LastPurchaseCost
	}
	if in.ReferenceCost != nil {
		ps.ReferenceCost = *in.ReferenceCost
	}
	if in.IsPrimary != nil {
		ps.IsPrimary = *in.IsPrimary
	}
	if err := checkCosts(ps.LastPurchaseCost, ps.ReferenceCost); err != nil {
		return nil, err
	}
	ps.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, ps); err != nil {
		return nil, err
	}
	return toProductSupplierResponse(ps), nil
}

// Delete desvincula el proveedor del producto.
func (uc *ProductSupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

// ListByProduct lista los proveedores de un producto, el principal primero.
func (uc *ProductSupplierUseCase) ListByProduct(ctx context.Context, productID string) ([]dto.ProductSupplierResponse, error) {
	list, err := uc.repo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductSupplierResponse, 0, len(list))
	for _, ps := range list {
		items = append(items, *toProductSupplierResponse(ps))
	}
	return items, nil
}

func checkCosts(lastPurchase, reference decimal.Decimal) error {
	if err := inventory.ValidateCost("last_purchase_cost", lastPurchase); err != nil {
		return err
	}
	return inventory.ValidateCost("reference_cost", reference)
}

func toProductSupplierResponse(ps *entity.ProductSupplier) *dto.ProductSupplierResponse {
	return &dto.ProductSupplierResponse{
		ID:               ps.ID,
		ProductID:        ps.ProductID,
		SupplierID:       ps.SupplierID,
		SupplierCode:     ps.SupplierCode,
		LastPurchaseCost: ps.LastPurchaseCost,
		ReferenceCost:    ps.ReferenceCost,
		IsPrimary:        ps.IsPrimary,
		CreatedAt:        ps.CreatedAt,
		UpdatedAt:        ps.UpdatedAt,
	}
}
