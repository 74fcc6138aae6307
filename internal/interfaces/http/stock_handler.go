package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/logiruta/logistica-api/internal/application/dto"
	"github.com/logiruta/logistica-api/internal/application/stock"
)

// StockHandler expone el motor de stock: saldos, disponibilidad, reservas y movimientos.
type StockHandler struct {
	uc *stock.StockUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *stock.StockUseCase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetBalance devuelve el saldo de un producto en una bodega.
func (h *StockHandler) GetBalance(c *fiber.Ctx) error {
	productID := c.Params("productId")
	warehouseID := c.Params("warehouseId")
	if productID == "" || warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId y warehouseId son requeridos"})
	}
	s, err := h.uc.GetBalance(c.Context(), productID, warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToStockResponse(s))
}

// GetByProduct devuelve los saldos de un producto en todas las bodegas.
func (h *StockHandler) GetByProduct(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	list, err := h.uc.GetByProduct(c.Context(), productID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToStockResponse(s))
	}
	return c.JSON(out)
}

// GetByWarehouse devuelve los saldos de todos los productos de una bodega.
func (h *StockHandler) GetByWarehouse(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "warehouseId es requerido"})
	}
	list, err := h.uc.GetByWarehouse(c.Context(), warehouseID)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.ToStockResponse(s))
	}
	return c.JSON(out)
}

// CheckAvailability responde si hay disponible suficiente, sin reservar nada.
func (h *StockHandler) CheckAvailability(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	warehouseID := c.Query("warehouse_id")
	qtyStr := c.Query("quantity")
	if productID == "" || warehouseID == "" || qtyStr == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id, warehouse_id y quantity son requeridos"})
	}
	qty, err := decimal.NewFromString(qtyStr)
	if err != nil || !qty.GreaterThan(decimal.Zero) {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity debe ser un número positivo"})
	}
	ok, err := h.uc.CheckAvailability(c.Context(), productID, warehouseID, qty)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.AvailabilityResponse{
		Available:         ok,
		ProductID:         productID,
		WarehouseID:       warehouseID,
		RequestedQuantity: qty,
	})
}

// Reserve mueve cantidad de disponible a reservado (deja fila RESERVATION en el ledger).
func (h *StockHandler) Reserve(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ReserveStockRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	s, err := h.uc.Reserve(c.Context(), in.ProductID, in.WarehouseID, in.Quantity, userID, in.Reference)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToStockResponse(s))
}

// Release devuelve cantidad de reservado a disponible (deja fila RETURN en el ledger).
func (h *StockHandler) Release(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.ReleaseStockRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	s, err := h.uc.Release(c.Context(), in.ProductID, in.WarehouseID, in.Quantity, userID, in.Reference)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(dto.ToStockResponse(s))
}

// Entry registra una entrada de stock (ENTRY o ADJUSTMENT positivo).
func (h *StockHandler) Entry(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateStockMovementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	s, err := h.uc.AddStock(c.Context(), movementInput(in, userID))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockResponse(s))
}

// Exit registra una salida de stock (EXIT, DISPATCH o ADJUSTMENT negativo).
func (h *StockHandler) Exit(c *fiber.Ctx) error {
	userID := GetUserID(c)
	var in dto.CreateStockMovementRequest
	if err := parseAndValidate(c, &in); err != nil {
		return err
	}
	s, err := h.uc.RemoveStock(c.Context(), movementInput(in, userID))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToStockResponse(s))
}

// MovementHistory devuelve el ledger de un producto, más reciente primero.
func (h *StockHandler) MovementHistory(c *fiber.Ctx) error {
	productID := c.Params("productId")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "productId es requerido"})
	}
	limit := c.QueryInt("limit", 0)
	list, err := h.uc.MovementHistory(c.Context(), productID, limit)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// MovementsByWarehouse devuelve movimientos que tocan una bodega, con rango de fechas opcional.
func (h *StockHandler) MovementsByWarehouse(c *fiber.Ctx) error {
	warehouseID := c.Params("warehouseId")
	if warehouseID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "warehouseId es requerido"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
	}
	to, err := parseTimeQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
	}

	list, err := h.uc.MovementsByWarehouse(c.Context(), warehouseID, from, to, page.Limit, page.Offset)
	if err != nil {
		return writeDomainError(c, err)
	}
	out := make([]dto.StockMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

func movementInput(in dto.CreateStockMovementRequest, userID string) stock.MovementInput {
	return stock.MovementInput{
		ProductID:              in.ProductID,
		OriginWarehouseID:      in.OriginWarehouseID,
		DestinationWarehouseID: in.DestinationWarehouseID,
		BatchID:                in.BatchID,
		Type:                   in.MovementType,
		Quantity:               in.Quantity,
		UnitType:               in.UnitType,
		ReferenceNumber:        in.ReferenceNumber,
		Notes:                  in.Notes,
		ActorID:                userID,
	}
}

func parseTimeQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
