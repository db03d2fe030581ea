package inventory

import (
	"github.com/JonaTomas14/InsumosArica/internal/application/dto"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
)

const dateLayout = "2006-01-02"

func toMovementResponse(m *entity.Movement, products map[string]*entity.Product, warehouseName string) *dto.MovementResponse {
	out := &dto.MovementResponse{
		ID:            m.ID,
		Kind:          string(m.Kind),
		Status:        string(m.Status),
		Date:          m.Date,
		WarehouseID:   m.WarehouseID,
		WarehouseName: warehouseName,
		SupplierID:    m.SupplierID,
		Destination:   m.Destination,
		Reference:     m.Reference,
		Observation:   m.Observation,
		CreatedBy:     m.CreatedBy,
		PostedAt:      m.PostedAt,
		Lines:         make([]dto.MovementLineResponse, 0, len(m.Lines)),
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	for _, l := range m.Lines {
		line := dto.MovementLineResponse{
			ID:          l.ID,
			ProductID:   l.ProductID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Lot:         l.Lot,
			Observation: l.Observation,
		}
		if p := products[l.ProductID]; p != nil {
			line.ProductSKU = p.SKU
			line.ProductName = p.Name
		}
		if l.ExpiresAt != nil {
			s := l.ExpiresAt.Format(dateLayout)
			line.ExpiresAt = &s
		}
		out.Lines = append(out.Lines, line)
	}
	return out
}

func toStockResponse(s *entity.Stock) dto.StockResponse {
	return dto.StockResponse{
		WarehouseID: s.WarehouseID,
		ProductID:   s.ProductID,
		Quantity:    s.Quantity,
		UpdatedAt:   s.UpdatedAt,
	}
}
