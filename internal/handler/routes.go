package handler

import (
	"context"
	"time"

	"motoparts-inventory/internal/model"
	"motoparts-inventory/internal/ws"

	"github.com/gofiber/fiber/v2"
)

// Handlers bundles every HTTP handler mounted under /api/v1.
type Handlers struct {
	Auth         *AuthHandler
	Transactions *TransactionHandler
	Products     *ProductHandler
	Categories   *CatalogHandler[model.Category]
	Brands       *CatalogHandler[model.Brand]
	Motorcycles  *CatalogHandler[model.Motorcycle]
	Dashboard    *DashboardHandler
}

// RegisterRoutes wires the API, the websocket stream and the health probe.
func RegisterRoutes(app *fiber.App, h Handlers, requireAuth fiber.Handler, hub *ws.Hub, ping func(context.Context) error) {
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/validate-token", h.Auth.ValidateToken)
	auth.Post("/change-password", requireAuth, h.Auth.ChangePassword)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", requireAuth)

	protected.Get("/dashboard/stats", h.Dashboard.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", h.Dashboard.GetStockMovement)
	protected.Get("/dashboard/financial", h.Dashboard.GetFinancialStats)

	protected.Get("/transactions", h.Transactions.GetTransactions)
	protected.Get("/transactions/filter/date", h.Transactions.GetTransactionsByDate)
	protected.Get("/transactions/:id", h.Transactions.GetTransaction)
	protected.Post("/transactions", h.Transactions.CreateTransaction)
	protected.Delete("/transactions/:id", h.Transactions.DeleteTransaction)

	protected.Get("/products", h.Products.GetProducts)
	protected.Get("/products/low-stock", h.Products.GetLowStock)
	protected.Get("/products/:id", h.Products.GetProduct)
	protected.Post("/products", h.Products.CreateProduct)
	protected.Put("/products/:id", h.Products.UpdateProduct)
	protected.Delete("/products/:id", h.Products.DeleteProduct)
	protected.Get("/products/:id/motorcycles", h.Products.GetCompatibleMotorcycles)
	protected.Put("/products/:id/motorcycles", h.Products.SetCompatibleMotorcycles)
	protected.Post("/products/:id/motorcycles/:motorcycleId", h.Products.AddCompatibleMotorcycle)
	protected.Delete("/products/:id/motorcycles/:motorcycleId", h.Products.RemoveCompatibleMotorcycle)

	h.Categories.Mount(protected.Group("/categories"))
	h.Brands.Mount(protected.Group("/brands"))
	motorcycles := protected.Group("/motorcycles")
	motorcycles.Get("/:id/products", h.Products.GetProductsForMotorcycle)
	h.Motorcycles.Mount(motorcycles)

	// WebSocket Route
	app.Use("/ws", ws.Upgrade)
	app.Get("/ws", hub.Handler())

	app.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		if err := ping(ctx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "database": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok", "database": "ok", "clients": hub.ClientCount()})
	})
}
