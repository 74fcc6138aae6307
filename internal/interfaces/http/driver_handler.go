package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/usecase"
)

// DriverHandler maneja las peticiones HTTP para Driver (protegido).
type DriverHandler struct {
	uc *usecase.DriverUseCase
}

// NewDriverHandler construye el handler.
func NewDriverHandler(uc *usecase.DriverUseCase) *DriverHandler {
	return &DriverHandler{uc: uc}
}

// Create registra un conductor de la empresa del token.
func (h *DriverHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var in dto.CreateDriverRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), companyID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID devuelve un conductor de la empresa.
func (h *DriverHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetByID(c.Context(), companyID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus cambia el estado del conductor.
func (h *DriverHandler) UpdateStatus(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	var in dto.UpdateDriverStatusRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.Context(), companyID, id, in.Status)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// List devuelve los conductores de la empresa, paginados.
func (h *DriverHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	out, err := h.uc.List(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
