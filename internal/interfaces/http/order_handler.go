package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pedidos-api/internal/application/dto"
	"github.com/rs/zerolog"
)

// OrderItemsService operaciones sobre las líneas del pedido (lo implementa *orders.UseCase).
type OrderItemsService interface {
	ListItems(ctx context.Context, companyID, orderID string) (*dto.OrderItemsResponse, error)
	AddItem(ctx context.Context, companyID, orderID string, in dto.AddItemRequest) (*dto.OrderItemsResponse, error)
	AddBulk(ctx context.Context, companyID, orderID string, in dto.AddBulkRequest) (*dto.OrderItemsResponse, error)
	EditItem(ctx context.Context, companyID, orderID, itemID string, in dto.EditItemRequest) (*dto.OrderItemsResponse, error)
	RemoveItem(ctx context.Context, companyID, orderID, itemID string) (*dto.OrderItemsResponse, error)
}

// OrderHandler maneja las líneas de pedido (protegido).
type OrderHandler struct {
	uc  OrderItemsService
	log zerolog.Logger
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc OrderItemsService, log zerolog.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, log: log}
}

// ListItems GET /api/orders/:id/items
func (h *OrderHandler) ListItems(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.ListItems(c.UserContext(), companyID, c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AddItem agrega un producto por código. Sin stock suficiente la línea se guarda con
// pendiente y la respuesta trae el aviso en warnings.
// POST /api/orders/:id/items
func (h *OrderHandler) AddItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.AddItem(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AddBulk agrega varias líneas desde texto libre. Todo o nada: con cualquier línea
// inválida responde 422 con la lista completa de problemas.
// POST /api/orders/:id/items/bulk
func (h *OrderHandler) AddBulk(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddBulkRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.AddBulk(c.UserContext(), companyID, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// EditItem PATCH /api/orders/:id/items/:itemId
func (h *OrderHandler) EditItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.EditItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	out, err := h.uc.EditItem(c.UserContext(), companyID, c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// RemoveItem DELETE /api/orders/:id/items/:itemId
func (h *OrderHandler) RemoveItem(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.RemoveItem(c.UserContext(), companyID, c.Params("id"), c.Params("itemId"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
