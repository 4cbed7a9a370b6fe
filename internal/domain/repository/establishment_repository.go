package repository

import (
	"context"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

// EstablishmentRepository define el puerto de persistencia para establecimientos.
type EstablishmentRepository interface {
	Create(ctx context.Context, est *entity.Establishment) error
	ListActiveByEmployer(ctx context.Context, employerID string) ([]*entity.Establishment, error)
}
