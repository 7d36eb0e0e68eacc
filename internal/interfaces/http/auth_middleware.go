package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockctl/pkg/jwt"
)

// LocalUserID clave de Locals con el ID del usuario autenticado.
const LocalUserID = "user_id"

// AuthMiddleware valida el Bearer Token JWT de tipo access y deja el UserID en c.Locals.
// Sin cabecera o con un token inválido/expirado responde 401 {"detail": ...}.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return detail(c, fiber.StatusUnauthorized, msgUnauthorized)
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return detail(c, fiber.StatusUnauthorized, msgInvalidToken)
		}
		userID, err := jwt.Parse(jwtSecret, strings.TrimSpace(parts[1]), jwt.TokenAccess)
		if err != nil {
			return detail(c, fiber.StatusUnauthorized, msgInvalidToken)
		}
		c.Locals(LocalUserID, userID)
		return c.Next()
	}
}

// GetUserID devuelve el UserID del contexto (0 antes del middleware de auth).
func GetUserID(c *fiber.Ctx) int64 {
	id, _ := c.Locals(LocalUserID).(int64)
	return id
}
