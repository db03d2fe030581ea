package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductSupplierRequest vincula un proveedor a un producto.
type CreateProductSupplierRequest struct {
	ProductID        string          `json:"product_id" validate:"required,uuid"`
	SupplierID       string          `json:"supplier_id" validate:"required,uuid"`
	SupplierCode     string          `json:"supplier_code" validate:"max=80"`
	LastPurchaseCost decimal.Decimal `json:"last_purchase_cost"`
	ReferenceCost    decimal.Decimal `json:"reference_cost"`
	IsPrimary        bool            `json:"is_primary"`
}

// UpdateProductSupplierRequest código y costos del proveedor; el par producto-proveedor no cambia.
type UpdateProductSupplierRequest struct {
	SupplierCode     *string          `json:"supplier_code" validate:"omitempty,max=80"`
	LastPurchaseCost *decimal.Decimal `json:"last_purchase_cost"`
	ReferenceCost    *decimal.Decimal `json:"reference_cost"`
	IsPrimary        *bool            `json:"is_primary"`
}

// ProductSupplierResponse salida de un vínculo producto-proveedor.
type ProductSupplierResponse struct {
	ID               string          `json:"id"`
	ProductID        string          `json:"product_id"`
	SupplierID       string          `json:"supplier_id"`
	SupplierCode     string          `json:"supplier_code"`
	LastPurchaseCost decimal.Decimal `json:"last_purchase_cost"`
	ReferenceCost    decimal.Decimal `json:"reference_cost"`
	IsPrimary        bool            `json:"is_primary"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}
