package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
// Cada error corresponde a un tipo de falla estable que la capa HTTP traduce a un código.
var (
	ErrNotFound        = errors.New("recurso no encontrado")
	ErrInvalidInput    = errors.New("entrada inválida")
	ErrDuplicate       = errors.New("recurso duplicado")
	ErrUnauthorized    = errors.New("credenciales inválidas")
	ErrUnauthenticated = errors.New("token no proporcionado, inválido o expirado")
	ErrForbidden       = errors.New("acceso denegado")
	ErrInvalidActor    = errors.New("usuario no válido o inactivo")
	ErrInvalidEmployer = errors.New("empleador no válido o inactivo")
	ErrInfrastructure  = errors.New("falla de infraestructura")
)

// WrapStore envuelve una falla de persistencia como ErrInfrastructure.
// ErrDuplicate y ErrNotFound se devuelven sin cambios para que la capa HTTP los distinga.
func WrapStore(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %s: %v", ErrInfrastructure, op, err)
}
