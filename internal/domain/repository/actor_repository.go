package repository

import (
	"context"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

// ActorRepository define el puerto de persistencia para usuarios (trabajadores, empleadores, fiscalizadores).
// Los métodos Get* devuelven (nil, nil) cuando el registro no existe.
type ActorRepository interface {
	Create(ctx context.Context, actor *entity.Actor) error
	GetByID(ctx context.Context, id string) (*entity.Actor, error)
	GetByRUT(ctx context.Context, rut string) (*entity.Actor, error)
	GetByEmail(ctx context.Context, email string) (*entity.Actor, error)
	Update(ctx context.Context, actor *entity.Actor) error
	Deactivate(ctx context.Context, id string) error
	ListByEmployer(ctx context.Context, employerID string) ([]*entity.Actor, error)
	CountActiveByEmployer(ctx context.Context, employerID string) (int, error)
}
