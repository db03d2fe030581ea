package entity

import "time"

// Category representa una categoría de productos (jerárquica opcional).
// Un producto puede estar en varias categorías.
type Category struct {
	ID        string
	ParentID  *string // nil si es raíz
	Name      string  // único
	CreatedAt time.Time
	UpdatedAt time.Time
}
