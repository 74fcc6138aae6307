package entity

import "time"

// Company representa una empresa (raíz multi-tenant); todo recurso pertenece a una.
type Company struct {
	ID        string
	Name      string
	TaxID     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
