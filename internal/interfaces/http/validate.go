package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/internal/application/dto"
)

var validate = validator.New()

// parseAndValidate parsea el body JSON en dest y aplica las reglas `validate` de los DTOs.
// Devuelve una respuesta de error ya escrita, o nil si todo está bien.
func parseAndValidate(c *fiber.Ctx, dest any) error {
	if err := c.BodyParser(dest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(dest); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return nil
}
