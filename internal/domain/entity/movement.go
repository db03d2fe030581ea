package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind tipo de movimiento: entrada o salida. Determina el signo del efecto sobre el stock.
type MovementKind string

const (
	KindInbound  MovementKind = "IN"  // entrada
	KindOutbound MovementKind = "OUT" // salida
)

// Valid indica si k es uno de los dos tipos conocidos.
func (k MovementKind) Valid() bool {
	return k == KindInbound || k == KindOutbound
}

// Delta devuelve el cambio de stock que produce una línea de cantidad qty.
func (k MovementKind) Delta(qty decimal.Decimal) decimal.Decimal {
	if k == KindOutbound {
		return qty.Neg()
	}
	return qty
}

// ChecksAvailability indica si el tipo exige stock suficiente antes de aplicar.
func (k MovementKind) ChecksAvailability() bool {
	return k == KindOutbound
}

// MovementStatus estado del ciclo de vida. POSTED es terminal.
type MovementStatus string

const (
	StatusDraft  MovementStatus = "DRAFT"
	StatusPosted MovementStatus = "POSTED"
)

// Movement cabecera de un movimiento de inventario (entrada o salida) con sus líneas.
// Solo es editable mientras Status == DRAFT.
type Movement struct {
	ID          string
	Kind        MovementKind
	Status      MovementStatus
	Date        time.Time
	WarehouseID string
	Reference   string // OC/Factura/etc
	Observation string
	CreatedBy   *string
	PostedAt    *time.Time

	SupplierID  *string // solo entradas
	Destination string  // solo salidas, texto libre

	Lines     []MovementLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDraft indica si el movimiento aún puede editarse o postearse.
func (m *Movement) IsDraft() bool {
	return m.Status == StatusDraft
}

// MovementLine línea de un movimiento. Pertenece a exactamente un movimiento;
// si es de entrada o salida lo decide el Kind del padre.
type MovementLine struct {
	ID          string
	MovementID  string
	ProductID   string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal // útil en entradas
	Lot         string
	ExpiresAt   *time.Time
	Observation string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
