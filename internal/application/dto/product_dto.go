package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU            string          `json:"sku" validate:"required,min=1,max=60"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	Description    string          `json:"description"`
	Barcode        string          `json:"barcode" validate:"max=80"`
	UnitMeasureID  string          `json:"unit_measure_id" validate:"required,uuid"`
	BrandID        *string         `json:"brand_id" validate:"omitempty,uuid"`
	CategoryIDs    []string        `json:"category_ids" validate:"omitempty,dive,uuid"`
	AllowsFraction *bool           `json:"allows_fraction"`
	MinStock       decimal.Decimal `json:"min_stock"`
	MaxStock       decimal.Decimal `json:"max_stock"`
	Location       string          `json:"location" validate:"max=120"`
}

// UpdateProductRequest entrada para actualizar un producto. El SKU no se puede modificar.
// CategoryIDs informado (aunque vacío) reemplaza las categorías; ClearBrand quita la marca.
type UpdateProductRequest struct {
	Name           *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description    *string          `json:"description"`
	Barcode        *string          `json:"barcode" validate:"omitempty,max=80"`
	UnitMeasureID  *string          `json:"unit_measure_id" validate:"omitempty,uuid"`
	BrandID        *string          `json:"brand_id" validate:"omitempty,uuid"`
	ClearBrand     bool             `json:"clear_brand"`
	CategoryIDs    []string         `json:"category_ids" validate:"omitempty,dive,uuid"`
	AllowsFraction *bool            `json:"allows_fraction"`
	Active         *bool            `json:"active"`
	MinStock       *decimal.Decimal `json:"min_stock"`
	MaxStock       *decimal.Decimal `json:"max_stock"`
	Location       *string          `json:"location" validate:"omitempty,max=120"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID             string          `json:"id"`
	SKU            string          `json:"sku"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Barcode        string          `json:"barcode"`
	UnitMeasureID  string          `json:"unit_measure_id"`
	BrandID        *string         `json:"brand_id"`
	CategoryIDs    []string        `json:"category_ids"`
	AllowsFraction bool            `json:"allows_fraction"`
	Active         bool            `json:"active"`
	MinStock       decimal.Decimal `json:"min_stock"`
	MaxStock       decimal.Decimal `json:"max_stock"`
	Location       string          `json:"location"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
