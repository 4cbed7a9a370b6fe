package entity

import "time"

// Employer representa a un empleador (persona jurídica o natural) con RUT propio.
type Employer struct {
	ID          string
	RUT         string
	RazonSocial string // nombre que entra en el hash de integridad
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
