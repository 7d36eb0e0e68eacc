package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// DashboardHandler estadísticas del dashboard y listas de alerta de productos.
type DashboardHandler struct {
	uc  *usecase.AnalyticsUseCase
	log *logger.Logger
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *usecase.AnalyticsUseCase, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{uc: uc, log: log}
}

// Stats devuelve los agregados del dashboard.
// GET /api/products/dashboard/stats/
//
// Respuesta: DashboardStatsResponse (totales, vencidos, próximos al vencimiento,
// top 5 marcas, productos por tipo, 5 recientes y 5 alertas abiertas).
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.DashboardStats(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ExpiringSoon GET /api/products/expiring-soon/?days=N (30 por defecto).
func (h *DashboardHandler) ExpiringSoon(c *fiber.Ctx) error {
	out, err := h.uc.ExpiringSoon(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Expired GET /api/products/expired/.
func (h *DashboardHandler) Expired(c *fiber.Ctx) error {
	out, err := h.uc.Expired(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// LowStock GET /api/products/low-stock/?min_quantity=N.
func (h *DashboardHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext(), c.QueryInt("min_quantity", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
