// Package http implementa sobre fiber la API REST del servidor de desarrollo,
// con las mismas rutas, cuerpos y errores que consume el cliente.
package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/stockctl/internal/application/inventory"
	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC      *usecase.UserUseCase
	ProductUC   *usecase.ProductUseCase
	MovementUC  *inventory.MovementUseCase
	AnalyticsUC *usecase.AnalyticsUseCase
	ExportUC    *usecase.ExportUseCase
	Clock       clock.Clock
	PageSize    int
	JWTSecret   string
	Log         *logger.Logger
}

// Router registra las rutas de la API. Con StrictRouting desactivado (el
// valor por defecto de fiber) cada ruta acepta también la barra final.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	log = log.Component("http")
	c := deps.Clock
	if c == nil {
		c = clock.RealClock{}
	}
	pageSize := deps.PageSize
	if pageSize <= 0 {
		pageSize = usecase.DefaultPageSize
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.UserUC, log)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/token", authHandler.Login)
	authGroup.Post("/token/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	requireAuth := AuthMiddleware(deps.JWTSecret)
	authGroup.Get("/check-auth", requireAuth, authHandler.CheckAuth)

	// Products: las rutas fijas van antes de /:id
	products := api.Group("/products", requireAuth)
	dashboardHandler := NewDashboardHandler(deps.AnalyticsUC, log)
	products.Get("/expiring-soon", dashboardHandler.ExpiringSoon)
	products.Get("/expired", dashboardHandler.Expired)
	products.Get("/low-stock", dashboardHandler.LowStock)
	products.Get("/dashboard/stats", dashboardHandler.Stats)

	productHandler := NewProductHandler(deps.ProductUC, c, pageSize, log)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	// Movimentações
	movements := api.Group("/movimentacoes", requireAuth)
	inventoryHandler := NewInventoryHandler(deps.MovementUC, pageSize, log)
	movements.Get("/", inventoryHandler.List)
	movements.Post("/", inventoryHandler.RegisterMovement)

	// Export y backup
	exportHandler := NewExportHandler(deps.ExportUC, log)
	api.Get("/export/filters", requireAuth, exportHandler.Filters)
	api.Post("/export", requireAuth, exportHandler.Export)
	api.Get("/backup", requireAuth, exportHandler.Backup)
}

// NewApp crea la aplicación fiber con el manejo de errores de la API y las rutas.
func NewApp(name string, deps RouterDeps) *fiber.App {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
		ErrorHandler:          ErrorHandler(log.Component("http")),
	})
	app.Use(recover.New())
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": name})
	})
	Router(app, deps)
	return app
}
