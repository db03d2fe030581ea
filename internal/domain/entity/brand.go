package entity

import "time"

// Brand marca de producto. Nombre único.
type Brand struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
