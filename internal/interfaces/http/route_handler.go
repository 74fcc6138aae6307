package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/routes"
)

// RouteHandler maneja el ciclo de rutas de reparto: planear (reserva), despachar,
// cancelar (libera) y completar.
type RouteHandler struct {
	uc *routes.DispatchUseCase
}

// NewRouteHandler construye el handler.
func NewRouteHandler(uc *routes.DispatchUseCase) *RouteHandler {
	return &RouteHandler{uc: uc}
}

// Create planea una ruta y reserva el stock de cada línea.
func (h *RouteHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	var in dto.CreateRouteRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.CreateRoute(c.Context(), companyID, userID, in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Dispatch despacha una ruta PLANNED (debita el stock reservado).
func (h *RouteHandler) Dispatch(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.DispatchRoute(c.Context(), companyID, userID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Cancel cancela una ruta PLANNED y libera sus reservas.
func (h *RouteHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.CancelRoute(c.Context(), companyID, userID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// Complete marca completada una ruta DISPATCHED.
func (h *RouteHandler) Complete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.CompleteRoute(c.Context(), companyID, id)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// GetByID devuelve una ruta con sus líneas.
func (h *RouteHandler) GetByID(c *fiber.Ctx) error {
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

// List devuelve rutas de la empresa, paginadas.
func (h *RouteHandler) List(c *fiber.Ctx) error {
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
