package entity

import "time"

// Establishment es una sucursal o faena de un empleador.
type Establishment struct {
	ID         string
	EmployerID string
	Nombre     string
	Direccion  string
	Comuna     string
	Region     string
	Active     bool
	CreatedAt  time.Time
}
