package dto

import "time"

// CreateEstablishmentRequest alta de establecimiento.
type CreateEstablishmentRequest struct {
	Nombre    string `json:"nombre" validate:"required"`
	Direccion string `json:"direccion,omitempty"`
	Comuna    string `json:"comuna,omitempty"`
	Region    string `json:"region,omitempty"`
}

// EstablishmentResponse establecimiento del empleador.
type EstablishmentResponse struct {
	ID          string    `json:"id"`
	EmpleadorID string    `json:"empleador_id"`
	Nombre      string    `json:"nombre"`
	Direccion   string    `json:"direccion"`
	Comuna      string    `json:"comuna"`
	Region      string    `json:"region"`
	Activo      bool      `json:"activo"`
	CreatedAt   time.Time `json:"created_at"`
}
