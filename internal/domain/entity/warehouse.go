package entity

import "time"

// Warehouse representa una bodega donde se almacena inventario.
type Warehouse struct {
	ID        string
	Name      string // único
	Address   string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
