package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockScale decimales de las cantidades en el libro de stock (numeric(14,3)).
const StockScale = 3

// MaxQuantity primer valor que ya no cabe en numeric(14,3): 11 dígitos enteros.
var MaxQuantity = decimal.New(1, 11)

// Stock representa la cantidad disponible de un producto en una bodega.
// Clave (WarehouseID, ProductID). Quantity nunca es negativa.
type Stock struct {
	WarehouseID string
	ProductID   string
	Quantity    decimal.Decimal
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
