package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
)

// errorMapping traduce cada error de dominio a estado HTTP, código estable y mensaje público.
var errorMapping = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{domain.ErrUnauthenticated, fiber.StatusUnauthorized, "UNAUTHENTICATED", "token no proporcionado, inválido o expirado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, "UNAUTHENTICATED", "credenciales inválidas"},
	{domain.ErrForbidden, fiber.StatusForbidden, "FORBIDDEN", "no tiene permisos para esta operación"},
	{domain.ErrInvalidActor, fiber.StatusBadRequest, "INVALID_ACTOR", "usuario no válido o inactivo"},
	{domain.ErrInvalidEmployer, fiber.StatusBadRequest, "INVALID_EMPLOYER", "empleador no válido o inactivo"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION", ""},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND", "recurso no encontrado"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE", ""},
	{domain.ErrInfrastructure, fiber.StatusServiceUnavailable, "UNAVAILABLE", "servicio temporalmente no disponible"},
}

// writeError responde con dto.ErrorResponse. Solo los errores de validación y duplicado
// exponen su mensaje (redactado en los casos de uso); el resto usa un texto fijo.
func writeError(c *fiber.Ctx, err error) error {
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			if m.status >= fiber.StatusInternalServerError {
				log.Error().Err(err).Str("path", c.Path()).Msg("falla de infraestructura")
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "cuerpo inválido"})
}

// ErrorHandler manejador global de Fiber: errores de ruteo (404/405) y cualquier error no mapeado.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "INTERNAL"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest, fiber.StatusRequestEntityTooLarge:
			code = "VALIDATION"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return writeError(c, err)
}
