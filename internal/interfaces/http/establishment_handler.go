package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/application/establishment"
)

// EstablishmentHandler establecimientos del empleador.
type EstablishmentHandler struct {
	uc *establishment.EstablishmentUseCase
}

// NewEstablishmentHandler construye el handler.
func NewEstablishmentHandler(uc *establishment.EstablishmentUseCase) *EstablishmentHandler {
	return &EstablishmentHandler{uc: uc}
}

// List godoc
// @Summary      Establecimientos activos
// @Tags         establecimientos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.EstablishmentResponse
// @Router       /api/establecimientos [get]
func (h *EstablishmentHandler) List(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.uc.List(c.UserContext(), claims)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Crear establecimiento
// @Tags         establecimientos
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateEstablishmentRequest  true  "nombre, direccion, comuna, region"
// @Success      201   {object}  dto.EstablishmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/establecimientos [post]
func (h *EstablishmentHandler) Create(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	var in dto.CreateEstablishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), claims, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
