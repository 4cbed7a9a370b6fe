package dto

// CreateWorkerRequest alta de trabajador por su empleador.
type CreateWorkerRequest struct {
	Rut             string `json:"rut" validate:"required"`
	Nombres         string `json:"nombres" validate:"required"`
	ApellidoPaterno string `json:"apellido_paterno" validate:"required"`
	ApellidoMaterno string `json:"apellido_materno" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Telefono        string `json:"telefono,omitempty"`
	RegimenEspecial bool   `json:"regimen_especial"`
}

// UpdateWorkerRequest edición parcial: los campos nil no se modifican.
type UpdateWorkerRequest struct {
	Nombres         *string `json:"nombres,omitempty"`
	ApellidoPaterno *string `json:"apellido_paterno,omitempty"`
	ApellidoMaterno *string `json:"apellido_materno,omitempty"`
	Email           *string `json:"email,omitempty"`
	Telefono        *string `json:"telefono,omitempty"`
	RegimenEspecial *bool   `json:"regimen_especial,omitempty"`
}

// WorkerResponse trabajador en listados y respuestas de edición.
type WorkerResponse struct {
	ID              string `json:"id"`
	Rut             string `json:"rut"`
	Nombres         string `json:"nombres"`
	ApellidoPaterno string `json:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno"`
	Email           string `json:"email"`
	Telefono        string `json:"telefono"`
	Rol             string `json:"rol"`
	RegimenEspecial bool   `json:"regimen_especial"`
	Activo          bool   `json:"activo"`
}

// EmployerStatsResponse respuesta de GET /api/empleador/estadisticas.
type EmployerStatsResponse struct {
	TotalTrabajadores      int `json:"total_trabajadores"`
	TrabajadoresActivosHoy int `json:"trabajadores_activos_hoy"`
	MarcacionesHoy         int `json:"marcaciones_hoy"`
	MarcacionesMes         int `json:"marcaciones_mes"`
}
