package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/internal/pkg/clock"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// ProductHandler maneja las peticiones HTTP para Product (protegido).
type ProductHandler struct {
	uc       *usecase.ProductUseCase
	clock    clock.Clock
	pageSize int
	log      *logger.Logger
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, c clock.Clock, pageSize int, log *logger.Logger) *ProductHandler {
	if pageSize <= 0 {
		pageSize = usecase.DefaultPageSize
	}
	return &ProductHandler{uc: uc, clock: c, pageSize: pageSize, log: log}
}

// List godoc
// @Summary      Listar productos (filtros y paginación)
// @Tags         products
// @Security     Bearer
// @Produce      json
// @Param        search           query  string  false  "tipo, marca, fornecedor u observacoes"
// @Param        status_validade  query  string  false  "vencido | proximo_vencimento | atencao | ok"
// @Param        ordering         query  string  false  "campo, con - para descendente"
// @Param        page             query  int     false  "página (20 por página)"
// @Success      200  {object}  dto.ProductPage
// @Failure      400  {object}  map[string][]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/ [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	page, ok := pageParam(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, msgInvalidPage)
	}
	filter, err := usecase.ParseProductFilter(c.Queries(), clock.Today(h.clock))
	if err != nil {
		return writeError(c, h.log, err)
	}
	out, err := h.uc.List(c.UserContext(), filter, page, h.pageSize)
	if err != nil {
		return writeError(c, h.log, err)
	}
	out.Next, out.Previous = pageLinks(c, page, h.pageSize, out.Count)
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear producto
// @Tags         products
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.ProductResponse
// @Failure      400   {object}  map[string][]string
// @Router       /api/products/ [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.ProductRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Create(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Int64("product_id", out.ID).Str("marca", out.Brand).Msg("producto creado")
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID GET /api/products/:id/.
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, msgNotFound)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/products/:id/ (reemplazo completo).
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, msgNotFound)
	}
	var in dto.ProductRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/products/:id/ → 204.
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, ok := pathID(c)
	if !ok {
		return detail(c, fiber.StatusNotFound, msgNotFound)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Int64("product_id", id).Msg("producto eliminado")
	return c.SendStatus(fiber.StatusNoContent)
}
