package dto

// LoginRequest entrada para login: RUT y contraseña.
type LoginRequest struct {
	Rut      string `json:"rut" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// EmployerResponse empleador asociado al perfil.
type EmployerResponse struct {
	ID          string `json:"id"`
	Rut         string `json:"rut"`
	RazonSocial string `json:"razon_social"`
	Activo      bool   `json:"activo"`
}

// ProfileResponse perfil del usuario autenticado (sin password).
type ProfileResponse struct {
	ID              string            `json:"id"`
	Rut             string            `json:"rut"`
	Nombres         string            `json:"nombres"`
	ApellidoPaterno string            `json:"apellido_paterno"`
	ApellidoMaterno string            `json:"apellido_materno"`
	Email           string            `json:"email"`
	Telefono        string            `json:"telefono"`
	Rol             string            `json:"rol"`
	RegimenEspecial bool              `json:"regimen_especial"`
	Empleador       *EmployerResponse `json:"empleador"`
}

// LoginResponse token JWT (24 h) más el perfil.
type LoginResponse struct {
	Token   string          `json:"token"`
	Usuario ProfileResponse `json:"usuario"`
}

// RegisterRequest autorregistro de un trabajador.
type RegisterRequest struct {
	Rut             string `json:"rut" validate:"required"`
	Nombres         string `json:"nombres" validate:"required"`
	ApellidoPaterno string `json:"apellido_paterno" validate:"required"`
	ApellidoMaterno string `json:"apellido_materno" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	Telefono        string `json:"telefono,omitempty"`
	EmpleadorID     string `json:"empleador_id" validate:"required"`
}

// ChangePasswordRequest cambio de contraseña del usuario autenticado.
type ChangePasswordRequest struct {
	PasswordActual string `json:"password_actual" validate:"required"`
	PasswordNueva  string `json:"password_nueva" validate:"required,min=6"`
}
