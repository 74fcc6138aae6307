package entity

import "time"

// Estados de un conductor.
const (
	DriverStatusDisponible = "disponible"
	DriverStatusEnRuta     = "en_ruta"
	DriverStatusDescanso   = "descanso"
	DriverStatusInactivo   = "inactivo"
)

// Driver conductor habilitado para rutas de reparto.
type Driver struct {
	ID              string
	CompanyID       string
	Name            string
	LicenseNumber   string
	LicenseType     string // A, B, C...
	LicenseExpiry   *time.Time
	YearsExperience int
	Status          string
	Notes           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Assignable indica si el conductor puede asignarse a una ruta nueva.
func (d *Driver) Assignable() bool {
	return d.Status == DriverStatusDisponible || d.Status == DriverStatusEnRuta
}
