package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/internal/application/auth"
	"github.com/logiruta/logistica-api/internal/application/dto"
)

// AuthHandler maneja registro y login.
type AuthHandler struct {
	uc *auth.AuthUseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Register crea un usuario en una empresa existente.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterUser(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Login autentica por email+password y devuelve un JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Login(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
