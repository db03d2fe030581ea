package inventory

import (
	"context"

	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/JonaTomas14/InsumosArica/internal/domain/repository"
)

// StockUseCase consulta de solo lectura del libro de stock.
type StockUseCase struct {
	reader repository.StockReader
}

// NewStockUseCase construye el caso de uso.
func NewStockUseCase(reader repository.StockReader) *StockUseCase {
	return &StockUseCase{reader: reader}
}

// Get devuelve el stock de un producto en una bodega; cantidad 0 si aún no hay fila.
func (uc *StockUseCase) Get(ctx context.Context, warehouseID, productID string) (*dto.StockResponse, error) {
	if warehouseID == "" || productID == "" {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.reader.Get(ctx, warehouseID, productID)
	if err != nil {
		return nil, err
	}
	out := toStockResponse(s)
	return &out, nil
}

// List lista el stock por bodega (paginado) o por producto (todas sus bodegas).
func (uc *StockUseCase) List(ctx context.Context, warehouseID, productID string, page dto.PageRequest) (*dto.StockListResponse, error) {
	page.DefaultPage()
	if warehouseID != "" && productID != "" {
		s, err := uc.Get(ctx, warehouseID, productID)
		if err != nil {
			return nil, err
		}
		return &dto.StockListResponse{Items: []dto.StockResponse{*s}, Page: dto.PageResponse{Limit: page.Limit, Total: 1}}, nil
	}
	var (
		err  error
		list []*entity.Stock
	)
	switch {
	case warehouseID != "":
		list, err = uc.reader.ListByWarehouse(ctx, warehouseID, page.Limit, page.Offset)
	case productID != "":
		list, err = uc.reader.ListByProduct(ctx, productID)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		items = append(items, toStockResponse(s))
	}
	return &dto.StockListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
