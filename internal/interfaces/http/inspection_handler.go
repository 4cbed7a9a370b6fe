package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
)

// InspectionHandler consultas de fiscalización (rol fiscalizador, todos los empleadores).
type InspectionHandler struct {
	query *attendance.Query
}

// NewInspectionHandler construye el handler.
func NewInspectionHandler(query *attendance.Query) *InspectionHandler {
	return &InspectionHandler{query: query}
}

// List godoc
// @Summary      Marcaciones para fiscalización
// @Tags         fiscalizacion
// @Produce      json
// @Security     BearerAuth
// @Param        empleador_id  query  string  false  "filtra por empleador"
// @Param        desde         query  string  false  "RFC3339 o AAAA-MM-DD"
// @Param        hasta         query  string  false  "RFC3339 o AAAA-MM-DD"
// @Success      200  {array}   dto.AttendanceItem
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/fiscalizacion/marcaciones [get]
func (h *InspectionHandler) List(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.query.ForInspection(c.UserContext(), claims, c.Query("empleador_id"), rangeQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// WorkerHistory godoc
// @Summary      Historial de un trabajador por RUT
// @Tags         fiscalizacion
// @Produce      json
// @Security     BearerAuth
// @Param        rut    path   string  true   "RUT del trabajador"
// @Param        desde  query  string  false  "RFC3339 o AAAA-MM-DD"
// @Param        hasta  query  string  false  "RFC3339 o AAAA-MM-DD"
// @Success      200  {array}   dto.AttendanceItem
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/fiscalizacion/trabajador/{rut} [get]
func (h *InspectionHandler) WorkerHistory(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.query.HistoryByRUT(c.UserContext(), claims, c.Params("rut"), rangeQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
