package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockResponse fila del libro de stock (solo lectura).
type StockResponse struct {
	WarehouseID string          `json:"warehouse_id"`
	ProductID   string          `json:"product_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// StockListResponse listado de stock por bodega o por producto.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
