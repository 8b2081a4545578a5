package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/Restaurante-api/internal/application/analytics"
	"github.com/jhoicas/Restaurante-api/internal/application/auth"
	"github.com/jhoicas/Restaurante-api/internal/application/inventory"
	"github.com/jhoicas/Restaurante-api/internal/application/usecase"
	"github.com/jhoicas/Restaurante-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	UserUC        *usecase.UserUseCase
	Ledger        *inventory.LedgerUseCase
	Replenishment *inventory.ReplenishmentUseCase
	DashboardUC   *appanalytics.DashboardUseCase
	AuthUC        *auth.AuthUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	productHandler := NewProductHandler(deps.ProductUC)

	// Público
	api.Get("/menu", productHandler.Menu)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movements
	inventoryHandler := NewInventoryHandler(deps.Ledger, deps.Replenishment)
	movements := protected.Group("/movements")
	movements.Get("/", inventoryHandler.ListMovements)
	movements.Post("/", inventoryHandler.RegisterMovement)

	// Inventory (conciliación, kardex, reposición)
	invGroup := protected.Group("/inventory")
	invGroup.Get("/products/:id/ledger-check", inventoryHandler.LedgerCheck)
	invGroup.Get("/products/:id/report", inventoryHandler.Report)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)

	// Users (solo ADMIN)
	userHandler := NewUserHandler(deps.UserUC)
	users := protected.Group("/users", RefreshRole(deps.UserUC), RequireRole(string(entity.RoleAdmin)))
	users.Get("/", userHandler.List)
	users.Patch("/", userHandler.UpdateRoleByBody)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id/role", userHandler.UpdateRole)
}
