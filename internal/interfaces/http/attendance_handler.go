package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
)

// AttendanceHandler registro, consulta, comprobante y verificación de marcaciones.
type AttendanceHandler struct {
	recorder *attendance.Recorder
	verifier *attendance.Verifier
	query    *attendance.Query
	receipts *attendance.ReceiptUseCase
}

// NewAttendanceHandler construye el handler.
func NewAttendanceHandler(
	recorder *attendance.Recorder,
	verifier *attendance.Verifier,
	query *attendance.Query,
	receipts *attendance.ReceiptUseCase,
) *AttendanceHandler {
	return &AttendanceHandler{recorder: recorder, verifier: verifier, query: query, receipts: receipts}
}

// Create godoc
// @Summary      Registrar marcación
// @Description  El timestamp lo genera el servidor. Devuelve el hash de integridad.
// @Tags         marcaciones
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateAttendanceRequest  true  "tipo_marcacion, ubicacion"
// @Success      201   {object}  dto.AttendanceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/marcaciones [post]
func (h *AttendanceHandler) Create(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	var in dto.CreateAttendanceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.recorder.Record(c.UserContext(), claims, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Mine godoc
// @Summary      Mis marcaciones
// @Tags         marcaciones
// @Produce      json
// @Security     BearerAuth
// @Param        desde  query  string  false  "RFC3339 o AAAA-MM-DD"
// @Param        hasta  query  string  false  "RFC3339 o AAAA-MM-DD"
// @Success      200    {array}   dto.AttendanceItem
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/marcaciones/mis-marcaciones [get]
func (h *AttendanceHandler) Mine(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.query.Mine(c.UserContext(), claims, rangeQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Last godoc
// @Summary      Última marcación propia (null si no hay)
// @Tags         marcaciones
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.AttendanceItem
// @Router       /api/marcaciones/ultima [get]
func (h *AttendanceHandler) Last(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.query.Last(c.UserContext(), claims)
	if err != nil {
		return writeError(c, err)
	}
	if out == nil {
		return c.JSON(nil)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de una marcación
// @Tags         marcaciones
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id   path  string  true  "ID de la marcación"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/marcaciones/{id}/comprobante [get]
func (h *AttendanceHandler) Receipt(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	pdf, filename, err := h.receipts.Download(c.UserContext(), claims, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdf)
}

// Verify godoc
// @Summary      Verificar autenticidad de una marcación (público)
// @Description  Recalcula el hash con los datos vigentes del trabajador y el empleador.
// @Tags         marcaciones
// @Accept       json
// @Produce      json
// @Param        body  body  dto.VerifyRequest  true  "hash"
// @Success      200   {object}  dto.VerifyResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/marcaciones/verificar [post]
func (h *AttendanceHandler) Verify(c *fiber.Ctx) error {
	var in dto.VerifyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.verifier.Verify(c.UserContext(), in.Hash)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ByEmployer godoc
// @Summary      Marcaciones de los trabajadores del empleador
// @Tags         empleador
// @Produce      json
// @Security     BearerAuth
// @Param        desde  query  string  false  "RFC3339 o AAAA-MM-DD"
// @Param        hasta  query  string  false  "RFC3339 o AAAA-MM-DD"
// @Success      200    {array}   dto.AttendanceItem
// @Failure      403    {object}  dto.ErrorResponse
// @Router       /api/empleador/marcaciones [get]
func (h *AttendanceHandler) ByEmployer(c *fiber.Ctx) error {
	claims, _ := GetClaims(c)
	out, err := h.query.ByEmployer(c.UserContext(), claims, rangeQuery(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func rangeQuery(c *fiber.Ctx) dto.DateRangeQuery {
	return dto.DateRangeQuery{Desde: c.Query("desde"), Hasta: c.Query("hasta")}
}
