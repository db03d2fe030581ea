package inventory

import (
	"fmt"
	"sort"

	"github.com/JonaTomas14/InsumosArica/internal/domain"
	"github.com/JonaTomas14/InsumosArica/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ValidateLine aplica las reglas de una línea: 0 < cantidad < entity.MaxQuantity, a lo más
// entity.StockScale decimales y cantidad entera si el producto no permite fracciones.
func ValidateLine(line entity.MovementLine, product *entity.Product) error {
	if !line.Quantity.GreaterThan(decimal.Zero) {
		return &domain.InvalidLineError{LineID: line.ID, Quantity: line.Quantity}
	}
	if line.Quantity.GreaterThanOrEqual(entity.MaxQuantity) {
		return &domain.InvalidLineError{
			LineID:   line.ID,
			Quantity: line.Quantity,
			Reason:   "excede el máximo admitido",
		}
	}
	if !line.Quantity.Equal(line.Quantity.Round(entity.StockScale)) {
		return &domain.InvalidLineError{
			LineID:   line.ID,
			Quantity: line.Quantity,
			Reason:   fmt.Sprintf("máximo %d decimales", entity.StockScale),
		}
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", line.ProductID, domain.ErrNotFound)
	}
	if !product.AllowsFraction && !IsWhole(line.Quantity) {
		return &domain.FractionNotAllowedError{SKU: product.SKU, Quantity: line.Quantity}
	}
	return nil
}

// IsWhole indica si q es igual a su truncamiento entero.
func IsWhole(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(0))
}

// LineDelta calcula el delta que una línea de tipo kind aplica sobre available.
// Las salidas exigen available >= requested; las entradas no pueden llevar el stock a entity.MaxQuantity.
func LineDelta(kind entity.MovementKind, sku string, available, requested decimal.Decimal) (decimal.Decimal, error) {
	if kind.ChecksAvailability() && available.LessThan(requested) {
		return decimal.Zero, &domain.InsufficientStockError{SKU: sku, Available: available, Requested: requested}
	}
	delta := kind.Delta(requested)
	if available.Add(delta).GreaterThanOrEqual(entity.MaxQuantity) {
		return decimal.Zero, &domain.InvalidLineError{
			Quantity: requested,
			Reason:   fmt.Sprintf("el stock de %s excede el máximo admitido", sku),
		}
	}
	return delta, nil
}

// DistinctProductIDs devuelve los productos referenciados por lines, sin repetir y ordenados
// (orden estable de adquisición de bloqueos).
func DistinctProductIDs(lines []entity.MovementLine) []string {
	seen := make(map[string]struct{}, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.ProductID]; ok {
			continue
		}
		seen[l.ProductID] = struct{}{}
		ids = append(ids, l.ProductID)
	}
	sort.Strings(ids)
	return ids
}

// ValidateCost exige un costo no negativo que quepa en numeric(14,2) sin redondeo.
func ValidateCost(field string, cost decimal.Decimal) error {
	switch {
	case cost.IsNegative():
		return fmt.Errorf("%s negativo: %w", field, domain.ErrInvalidInput)
	case cost.GreaterThanOrEqual(entity.MaxCost):
		return fmt.Errorf("%s excede el máximo admitido: %w", field, domain.ErrInvalidInput)
	case !cost.Equal(cost.Round(entity.CostScale)):
		return fmt.Errorf("%s admite a lo más %d decimales: %w", field, entity.CostScale, domain.ErrInvalidInput)
	}
	return nil
}
