package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto o SKU del catálogo.
// SKU es inmutable tras la creación; el stock se maneja por bodega en Stock.
type Product struct {
	ID             string
	SKU            string // código único
	Name           string
	Description    string
	Barcode        string
	UnitMeasureID  string   // obligatorio
	BrandID        *string  // nil = sin marca
	CategoryIDs    []string // ordenadas, sin repetir
	AllowsFraction bool     // false: las cantidades deben ser enteras
	Active         bool
	MinStock       decimal.Decimal
	MaxStock       decimal.Decimal
	Location       string // rack/pasillo/estante
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
