package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un vehículo.
const (
	VehicleStatusActivo        = "activo"
	VehicleStatusMantenimiento = "en_mantenimiento"
	VehicleStatusInactivo      = "inactivo"
)

// Vehicle vehículo de la flota de reparto. LicensePlate es única por empresa.
type Vehicle struct {
	ID             string
	CompanyID      string
	LicensePlate   string
	VehicleType    string // moto, carro, furgoneta, camion
	Brand          string
	Model          string
	Year           int
	WeightCapacity decimal.Decimal // kg
	Status         string
	DriverID       *string // conductor asignado, si hay
	Notes          string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Assignable indica si el vehículo puede asignarse a una ruta nueva.
func (v *Vehicle) Assignable() bool {
	return v.Status == VehicleStatusActivo
}
