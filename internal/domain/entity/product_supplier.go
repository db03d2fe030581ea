package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CostScale decimales de los costos (numeric(14,2)).
const CostScale = 2

// MaxCost primer costo que ya no cabe en numeric(14,2).
var MaxCost = decimal.New(1, 12)

// ProductSupplier vínculo producto-proveedor con el código y los costos del proveedor.
// Un par (producto, proveedor) aparece una sola vez.
type ProductSupplier struct {
	ID               string
	ProductID        string
	SupplierID       string
	SupplierCode     string
	LastPurchaseCost decimal.Decimal
	ReferenceCost    decimal.Decimal
	IsPrimary        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
