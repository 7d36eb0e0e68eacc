package http

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockctl/internal/application/dto"
	"github.com/jhoicas/stockctl/internal/domain"
	"github.com/jhoicas/stockctl/pkg/logger"
)

// Mensajes de error con el mismo texto que devuelve el backend real.
const (
	msgNotFound      = "Não encontrado."
	msgUnauthorized  = "As credenciais de autenticação não foram fornecidas."
	msgInvalidToken  = "O token informado não é válido para qualquer tipo de token"
	msgBadLogin      = "Usuário e/ou senha incorreto(s)"
	msgInvalidBody   = "JSON malformado."
	msgInvalidPage   = "Página inválida."
	msgInternalError = "Erro interno do servidor."
)

// writeError traduce un error de dominio al cuerpo DRF: los errores de
// validación van indexados por campo ({"campo": ["msg"]}), el resto como
// {"detail": "..."}.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		body := make(map[string][]string, len(ve.Fields))
		for k, msg := range ve.Fields {
			body[k] = []string{msg}
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, domain.ErrNotFound):
		return detail(c, fiber.StatusNotFound, msgNotFound)
	case errors.Is(err, domain.ErrUnauthorized):
		return detail(c, fiber.StatusUnauthorized, msgInvalidToken)
	case errors.Is(err, domain.ErrConflict):
		return detail(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		return detail(c, fiber.StatusBadRequest, err.Error())
	}
	log.Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	return detail(c, fiber.StatusInternalServerError, msgInternalError)
}

func detail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(dto.ErrorResponse{Detail: msg})
}

// bindJSON decodifica el cuerpo; uno ilegible es 400 {"detail": ...} vía ErrorHandler.
func bindJSON(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, msgInvalidBody)
	}
	return nil
}

// ErrorHandler responde los *fiber.Error (ruta inexistente, cuerpo ilegible,
// pánicos recuperados) con el mismo cuerpo {"detail": ...}.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			if fe.Code == fiber.StatusNotFound {
				return detail(c, fe.Code, msgNotFound)
			}
			return detail(c, fe.Code, fe.Message)
		}
		return writeError(c, log, err)
	}
}

// pathID lee el parámetro :id; ausente o no numérico es 404 como en el backend.
func pathID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// pageParam lee ?page=N (1 por defecto).
func pageParam(c *fiber.Ctx) (int, bool) {
	raw := c.Query("page")
	if raw == "" {
		return 1, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// pageLinks arma next/previous absolutos conservando el resto de la query.
func pageLinks(c *fiber.Ctx, page, pageSize, count int) (next, previous *string) {
	link := func(n int) *string {
		q := url.Values{}
		for k, v := range c.Queries() {
			q.Set(k, v)
		}
		if n == 1 {
			q.Del("page")
		} else {
			q.Set("page", strconv.Itoa(n))
		}
		s := c.BaseURL() + c.Path()
		if enc := q.Encode(); enc != "" {
			s += "?" + enc
		}
		return &s
	}
	if page*pageSize < count {
		next = link(page + 1)
	}
	if page > 1 {
		previous = link(page - 1)
	}
	return next, previous
}
