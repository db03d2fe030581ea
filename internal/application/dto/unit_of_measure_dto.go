package dto

import "time"

// UnitOfMeasureRequest entrada para crear o actualizar una unidad de medida.
type UnitOfMeasureRequest struct {
	Name   string `json:"name" validate:"required,min=1,max=120"`
	Symbol string `json:"symbol" validate:"max=20"`
}

// UnitOfMeasureResponse salida de una unidad de medida.
type UnitOfMeasureResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Symbol    string    `json:"symbol"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UnitOfMeasureListResponse lista paginada de unidades.
type UnitOfMeasureListResponse struct {
	Items []UnitOfMeasureResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
