package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/application/usecase"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// ExportHandler exportación filtrada y backup del sistema (protegido).
type ExportHandler struct {
	uc  *usecase.ExportUseCase
	log *logger.Logger
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *usecase.ExportUseCase, log *logger.Logger) *ExportHandler {
	return &ExportHandler{uc: uc, log: log}
}

// Filters GET /api/export/filters/.
func (h *ExportHandler) Filters(c *fiber.Ctx) error {
	out, err := h.uc.Filters(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar productos
// @Tags         export
// @Security     Bearer
// @Accept       json
// @Produce      octet-stream
// @Param        body  body  dto.ExportRequest  true  "format (csv|json|zip) y filters"
// @Success      200
// @Failure      400   {object}  map[string][]string
// @Router       /api/export/ [post]
func (h *ExportHandler) Export(c *fiber.Ctx) error {
	var in dto.ExportRequest
	if err := bindJSON(c, &in); err != nil {
		return err
	}
	out, err := h.uc.Export(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Str("format", in.Format).Int("bytes", len(out.Data)).Msg("exportación generada")
	return sendDownload(c, out)
}

// Backup GET /api/backup/ → ZIP con backup.json.
func (h *ExportHandler) Backup(c *fiber.Ctx) error {
	out, err := h.uc.Backup(c.UserContext())
	if err != nil {
		return writeError(c, h.log, err)
	}
	h.log.Info().Int("bytes", len(out.Data)).Msg("backup generado")
	return sendDownload(c, out)
}

func sendDownload(c *fiber.Ctx, d *dto.Download) error {
	for k, values := range d.Header {
		for _, v := range values {
			c.Set(k, v)
		}
	}
	return c.Status(fiber.StatusOK).Send(d.Data)
}
