package entity

import (
	"strings"
	"time"
)

// Roles válidos para Actor.
const (
	RoleTrabajador   = "trabajador"
	RoleEmpleador    = "empleador"
	RoleFiscalizador = "fiscalizador"
)

// IsValidRole indica si role es uno de los roles conocidos.
func IsValidRole(role string) bool {
	switch role {
	case RoleTrabajador, RoleEmpleador, RoleFiscalizador:
		return true
	}
	return false
}

// Actor representa a una persona del sistema: trabajador, empleador o fiscalizador DT.
// Nunca se elimina físicamente; Deactivate solo apaga Active.
type Actor struct {
	ID              string
	RUT             string // RUT chileno con dígito verificador, ej. "11111111-1"
	Nombres         string
	ApellidoPaterno string
	ApellidoMaterno string
	Email           string
	Telefono        string
	PasswordHash    string  // bcrypt
	Role            string  // trabajador, empleador, fiscalizador
	EmployerID      *string // nil para fiscalizadores
	RegimenEspecial bool
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FullName devuelve "nombres apellido_paterno apellido_materno" unido por un espacio.
// Es el nombre que entra en el hash de integridad de cada marcación.
func (a *Actor) FullName() string {
	return strings.Join([]string{a.Nombres, a.ApellidoPaterno, a.ApellidoMaterno}, " ")
}

// BelongsTo indica si el actor está afiliado al empleador indicado.
func (a *Actor) BelongsTo(employerID string) bool {
	return a.EmployerID != nil && *a.EmployerID == employerID
}
