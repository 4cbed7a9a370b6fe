package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/pkg/ratelimit"
)

// RateLimit limita por IP de cliente. Un limiter nil deja pasar todo.
// onReject puede ser nil; se invoca en cada rechazo (métricas).
func RateLimit(limiter *ratelimit.KeyLimiter, onReject func()) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if limiter == nil || limiter.Allow(c.IP(), time.Now()) {
			return c.Next()
		}
		if onReject != nil {
			onReject()
		}
		c.Set(fiber.HeaderRetryAfter, "1")
		return c.Status(fiber.StatusTooManyRequests).JSON(dto.ErrorResponse{
			Code:    "RATE_LIMITED",
			Message: "demasiadas solicitudes, intente nuevamente en unos segundos",
		})
	}
}
