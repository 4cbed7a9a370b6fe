package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/application/employer"
)

// EmployerHandler administración de trabajadores y estadísticas (rol empleador).
type EmployerHandler struct {
	uc *employer.EmployerUseCase
}

// NewEmployerHandler construye el handler.
func NewEmployerHandler(uc *employer.EmployerUseCase) *EmployerHandler {
	return &EmployerHandler{uc: uc}
}

// ListWorkers godoc
// @Summary      Trabajadores del empleador
// @Tags         empleador
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   dto.WorkerResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/empleador/trabajadores [get]
func (h *EmployerHandler) ListWorkers(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.uc.ListWorkers(c.UserContext(), claims)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// CreateWorker godoc
// @Summary      Crear trabajador
// @Tags         empleador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateWorkerRequest  true  "datos del trabajador"
// @Success      201   {object}  dto.WorkerResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/empleador/trabajadores [post]
func (h *EmployerHandler) CreateWorker(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	var in dto.CreateWorkerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.CreateWorker(c.UserContext(), claims, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateWorker godoc
// @Summary      Editar trabajador (parcial)
// @Description  Corregir nombres hace que las marcaciones anteriores dejen de verificar.
// @Tags         empleador
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                   true  "ID del trabajador"
// @Param        body  body  dto.UpdateWorkerRequest  true  "campos a modificar"
// @Success      200   {object}  dto.WorkerResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/empleador/trabajadores/{id} [put]
func (h *EmployerHandler) UpdateWorker(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	var in dto.UpdateWorkerRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.UpdateWorker(c.UserContext(), claims, c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// DeactivateWorker godoc
// @Summary      Desactivar trabajador
// @Tags         empleador
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "ID del trabajador"
// @Success      200  {object}  dto.MessageResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/empleador/trabajadores/{id} [delete]
func (h *EmployerHandler) DeactivateWorker(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	if err := h.uc.DeactivateWorker(c.UserContext(), claims, c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "trabajador desactivado"})
}

// Stats godoc
// @Summary      Estadísticas del día y del mes
// @Tags         empleador
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.EmployerStatsResponse
// @Router       /api/empleador/estadisticas [get]
func (h *EmployerHandler) Stats(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.uc.Stats(c.UserContext(), claims)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
