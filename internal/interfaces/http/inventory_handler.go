package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/inventory"
	"github.com/jhoicas/stockctl/internal/domain/repository"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de estoque (protegido).
type InventoryHandler struct {
	uc       *inventory.MovementUseCase
	pageSize int
	log      *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.MovementUseCase, pageSize int, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, pageSize: pageSize, log: log}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de estoque
// @Tags         movimentacoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "produto, tipo (ENTRADA|SAIDA), motivo, quantidade, preco_unitario"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  map[string][]string
// @Router       /api/movimentacoes/ [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.RegisterMovementFromRequest(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().
		Int64("movement_id", out.ID).
		Int64("product_id", out.Product).
		Str("tipo", out.Type).
		Int("quantidade", out.Quantity).
		Msg("movimiento registrado")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/movimentacoes/?produto=&ordering=&page=.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	page, ok := pageParam(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, msgInvalidPage)
	}
	filter := repository.MovementFilter{Ordering: c.Query("ordering")}
	if raw := c.Query("produto"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(map[string][]string{"produto": {"Informe um número válido."}})
		}
		filter.ProductID = id
	}
	out, err := h.uc.List(c.UserContext(), filter, page, h.pageSize)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out.Next, out.Previous = pageLinks(c, page, h.pageSize, out.Count)
	return c.JSON(out)
}
