package dto

import "time"

// CreateDriverRequest entrada para registrar un conductor.
type CreateDriverRequest struct {
	Name            string     `json:"name" validate:"required,min=1,max=200"`
	LicenseNumber   string     `json:"license_number" validate:"required,max=40"`
	LicenseType     string     `json:"license_type" validate:"required,max=10"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	YearsExperience int        `json:"years_experience" validate:"gte=0"`
	Notes           string     `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateDriverStatusRequest entrada para cambiar el estado de un conductor.
type UpdateDriverStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=disponible en_ruta descanso inactivo"`
}

// DriverResponse salida de un conductor.
type DriverResponse struct {
	ID              string     `json:"id"`
	CompanyID       string     `json:"company_id"`
	Name            string     `json:"name"`
	LicenseNumber   string     `json:"license_number"`
	LicenseType     string     `json:"license_type"`
	LicenseExpiry   *time.Time `json:"license_expiry,omitempty"`
	YearsExperience int        `json:"years_experience"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// DriverListResponse lista paginada de conductores.
type DriverListResponse struct {
	Items []DriverResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
