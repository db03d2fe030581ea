package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementLineRequest línea de un movimiento en borrador.
type MovementLineRequest struct {
	ProductID   string          `json:"product_id" validate:"required,uuid"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Lot         string          `json:"lot" validate:"max=80"`
	ExpiresAt   string          `json:"expires_at" validate:"omitempty,datetime=2006-01-02"`
	Observation string          `json:"observation" validate:"max=255"`
}

// CreateMovementRequest body para POST /api/movements-entrada y /api/movements-salida.
// SupplierID solo aplica a entradas; Destination solo a salidas.
type CreateMovementRequest struct {
	WarehouseID string                `json:"warehouse_id" validate:"required,uuid"`
	Date        *time.Time            `json:"date"`
	Reference   string                `json:"reference" validate:"max=120"`
	Observation string                `json:"observation"`
	SupplierID  *string               `json:"supplier_id" validate:"omitempty,uuid"`
	Destination string                `json:"destination" validate:"max=120"`
	Lines       []MovementLineRequest `json:"lines" validate:"dive"`
}

// UpdateMovementRequest edición de un borrador. Si Lines viene (aunque vacío) reemplaza todas las líneas.
type UpdateMovementRequest struct {
	WarehouseID *string               `json:"warehouse_id" validate:"omitempty,uuid"`
	Date        *time.Time            `json:"date"`
	Reference   *string               `json:"reference" validate:"omitempty,max=120"`
	Observation *string               `json:"observation"`
	SupplierID  *string               `json:"supplier_id" validate:"omitempty,uuid"`
	Destination *string               `json:"destination" validate:"omitempty,max=120"`
	Lines       []MovementLineRequest `json:"lines" validate:"omitempty,dive"`
}

// MovementLineResponse salida de una línea.
type MovementLineResponse struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"product_id"`
	ProductSKU  string          `json:"product_sku"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Lot         string          `json:"lot"`
	ExpiresAt   *string         `json:"expires_at"`
	Observation string          `json:"observation"`
}

// MovementResponse representación de un movimiento (borrador o posteado).
type MovementResponse struct {
	ID            string                 `json:"id"`
	Kind          string                 `json:"kind"`
	Status        string                 `json:"status"`
	Date          time.Time              `json:"date"`
	WarehouseID   string                 `json:"warehouse_id"`
	WarehouseName string                 `json:"warehouse_name"`
	SupplierID    *string                `json:"supplier_id,omitempty"`
	Destination   string                 `json:"destination,omitempty"`
	Reference     string                 `json:"reference"`
	Observation   string                 `json:"observation"`
	CreatedBy     *string                `json:"created_by"`
	PostedAt      *time.Time             `json:"posted_at"`
	Lines         []MovementLineResponse `json:"lines"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// MovementListResponse lista paginada de movimientos (sin líneas).
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
