package dto

// CreateAttendanceRequest entrada de POST /api/marcaciones. El timestamp nunca lo envía el cliente.
type CreateAttendanceRequest struct {
	TipoMarcacion string  `json:"tipo_marcacion" validate:"required,oneof=entrada salida salida_almuerzo entrada_almuerzo"`
	Ubicacion     *string `json:"ubicacion,omitempty"`
}

// AttendanceResponse marcación recién creada.
type AttendanceResponse struct {
	ID            string  `json:"id"`
	TipoMarcacion string  `json:"tipo_marcacion"`
	Timestamp     string  `json:"timestamp"`
	Ubicacion     *string `json:"ubicacion"`
	Hash          string  `json:"hash"`
}

// WorkerSummary datos del trabajador incluidos en listados de empleador y fiscalización.
type WorkerSummary struct {
	Rut             string `json:"rut"`
	Nombres         string `json:"nombres"`
	ApellidoPaterno string `json:"apellido_paterno"`
	ApellidoMaterno string `json:"apellido_materno"`
	Email           string `json:"email"`
}

// EmployerSummary datos mínimos del empleador.
type EmployerSummary struct {
	Rut         string `json:"rut"`
	RazonSocial string `json:"razon_social"`
}

// AttendanceItem fila de los listados de marcaciones.
type AttendanceItem struct {
	ID            string           `json:"id"`
	UsuarioID     string           `json:"usuario_id"`
	EmpleadorID   string           `json:"empleador_id"`
	TipoMarcacion string           `json:"tipo_marcacion"`
	Timestamp     string           `json:"timestamp"`
	Ubicacion     *string          `json:"ubicacion"`
	Hash          string           `json:"hash"`
	Sincronizado  bool             `json:"sincronizado"`
	Usuario       *WorkerSummary   `json:"usuario,omitempty"`
	Empleador     *EmployerSummary `json:"empleador,omitempty"`
}

// VerifyRequest entrada del endpoint público de verificación.
type VerifyRequest struct {
	Hash string `json:"hash" validate:"required"`
}

// VerifiedWorker proyección pública del trabajador: solo RUT y nombre.
type VerifiedWorker struct {
	Rut    string `json:"rut"`
	Nombre string `json:"nombre"`
}

// VerifiedAttendance proyección pública de la marcación: sin ids internos ni datos de contacto.
type VerifiedAttendance struct {
	TipoMarcacion string          `json:"tipo_marcacion"`
	Timestamp     string          `json:"timestamp"`
	Trabajador    VerifiedWorker  `json:"trabajador"`
	Empleador     EmployerSummary `json:"empleador"`
}

// VerifyResponse veredicto de autenticidad.
type VerifyResponse struct {
	Valido    bool               `json:"valido"`
	Marcacion VerifiedAttendance `json:"marcacion"`
}
