package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateVehicleRequest entrada para registrar un vehículo.
type CreateVehicleRequest struct {
	LicensePlate   string          `json:"license_plate" validate:"required,max=15"`
	VehicleType    string          `json:"vehicle_type" validate:"required,oneof=moto carro furgoneta camion"`
	Brand          string          `json:"brand" validate:"required,max=60"`
	Model          string          `json:"model" validate:"required,max=60"`
	Year           int             `json:"year" validate:"gte=1950"`
	WeightCapacity decimal.Decimal `json:"weight_capacity" validate:"required"`
	DriverID       string          `json:"driver_id,omitempty" validate:"omitempty,uuid4"`
	Notes          string          `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateVehicleStatusRequest entrada para cambiar el estado de un vehículo.
type UpdateVehicleStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=activo en_mantenimiento inactivo"`
}

// VehicleResponse salida de un vehículo.
type VehicleResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	LicensePlate   string          `json:"license_plate"`
	VehicleType    string          `json:"vehicle_type"`
	Brand          string          `json:"brand"`
	Model          string          `json:"model"`
	Year           int             `json:"year"`
	WeightCapacity decimal.Decimal `json:"weight_capacity"`
	Status         string          `json:"status"`
	DriverID       *string         `json:"driver_id,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// VehicleListResponse lista paginada de vehículos.
type VehicleListResponse struct {
	Items []VehicleResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
