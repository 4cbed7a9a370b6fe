package dto

// ErrorResponse cuerpo de error HTTP. Code es estable; Message es legible y nunca lleva detalle interno.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MessageResponse respuesta simple de confirmación.
type MessageResponse struct {
	Message string `json:"message"`
}

// DateRangeQuery filtros desde/hasta aceptados por los listados (RFC3339 o YYYY-MM-DD).
type DateRangeQuery struct {
	Desde string `query:"desde"`
	Hasta string `query:"hasta"`
}
