package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/usecase"
)

// BatchHandler maneja lotes de producto (protegido).
type BatchHandler struct {
	uc *usecase.BatchUseCase
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *usecase.BatchUseCase) *BatchHandler {
	return &BatchHandler{uc: uc}
}

// Create registra un lote.
func (h *BatchHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateBatchRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateStatus cambia el estado de un lote respetando las transiciones permitidas.
func (h *BatchHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.UpdateBatchStatusRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	out, err := h.uc.UpdateStatus(c.Context(), id, in.Status)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ListByProduct lista los lotes de un producto en una bodega.
func (h *BatchHandler) ListByProduct(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	out, err := h.uc.ListByProduct(c.Context(), productID, warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}

// ExpireDue marca vencidos los lotes con fecha de vencimiento pasada.
func (h *BatchHandler) ExpireDue(c *fiber.Ctx) error {
	n, err := h.uc.ExpireDue(c.Context())
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(fiber.Map{"expired": n})
}

// Reconcile compara la suma de lotes no terminales contra el saldo agregado.
func (h *BatchHandler) Reconcile(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id y warehouse_id son requeridos"})
	}
	out, err := h.uc.Reconcile(c.Context(), productID, warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(out)
}
