package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/pedidos-api/pkg/jwt"
	"github.com/rs/zerolog"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Orders          OrderItemsService
	Reconciliation  ReconciliationService
	MaxDocumentSize int64
	JWTSecret       string
	JWTIssuer       string
	Log             zerolog.Logger
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleSeller, jwt.RoleReconciler)
	editors := RequireRole(jwt.RoleAdmin, jwt.RoleSeller)

	orders := api.Group("/orders/:id")

	// Líneas del pedido
	orderHandler := NewOrderHandler(deps.Orders, deps.Log)
	orders.Get("/items", anyRole, orderHandler.ListItems)
	orders.Post("/items", editors, orderHandler.AddItem)
	orders.Post("/items/bulk", editors, orderHandler.AddBulk)
	orders.Patch("/items/:itemId", editors, orderHandler.EditItem)
	orders.Delete("/items/:itemId", editors, orderHandler.RemoveItem)

	// Conferencia contra NFe
	recHandler := NewReconciliationHandler(deps.Reconciliation, deps.MaxDocumentSize, deps.Log)
	orders.Post("/reconciliation", anyRole, recHandler.Compare)
	orders.Post("/reconciliation/pendency", anyRole, recHandler.ExportPendency)
}
