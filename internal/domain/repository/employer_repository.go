package repository

import (
	"context"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

// EmployerRepository define el puerto de persistencia para Employer.
type EmployerRepository interface {
	Create(ctx context.Context, employer *entity.Employer) error
	GetByID(ctx context.Context, id string) (*entity.Employer, error)
	GetByRUT(ctx context.Context, rut string) (*entity.Employer, error)
	Update(ctx context.Context, employer *entity.Employer) error
}
