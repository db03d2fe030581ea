package entity

import "time"

// UnitOfMeasure unidad en que se cuenta un producto (kg, un, L).
type UnitOfMeasure struct {
	ID        string
	Name      string // único
	Symbol    string
	CreatedAt time.Time
	UpdatedAt time.Time
}
