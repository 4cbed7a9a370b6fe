package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/domain"
)

// LocalClaims key de c.Locals donde queda la identidad autenticada.
const LocalClaims = "claims"

// AuthMiddleware valida el Bearer Token JWT y deja los access.Claims en c.Locals.
func AuthMiddleware(ac *access.Control) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, domain.ErrUnauthenticated)
		}
		claims, err := ac.Authenticate(strings.TrimSpace(parts[1]))
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// RequireLevel corta la petición con 403 si el rol no alcanza el nivel.
// Debe ir después de AuthMiddleware.
func RequireLevel(level access.Level) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := GetClaims(c)
		if !ok {
			return writeError(c, domain.ErrUnauthenticated)
		}
		if err := access.Authorize(claims, level); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}

// GetClaims devuelve los claims del contexto (después del middleware de auth).
func GetClaims(c *fiber.Ctx) (access.Claims, bool) {
	claims, ok := c.Locals(LocalClaims).(access.Claims)
	return claims, ok
}
