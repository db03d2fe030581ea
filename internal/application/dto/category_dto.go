package dto

import "time"

// CreateCategoryRequest entrada para crear una categoría. Sin parent_id queda como raíz.
type CreateCategoryRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=120"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
}

// UpdateCategoryRequest entrada para actualizar una categoría. MakeRoot quita el padre.
type UpdateCategoryRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1,max=120"`
	ParentID *string `json:"parent_id" validate:"omitempty,uuid"`
	MakeRoot bool    `json:"make_root"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	ParentID  *string   `json:"parent_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryListResponse lista paginada de categorías.
type CategoryListResponse struct {
	Items []CategoryResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
