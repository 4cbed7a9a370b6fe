package repository

import (
	"context"
	"time"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

// AttendanceFilter filtros combinables para listar marcaciones. Los campos vacíos no filtran.
type AttendanceFilter struct {
	ActorID    string
	EmployerID string
	ActorRUT   string
	Kind       entity.EventKind
	From       *time.Time // inclusive
	To         *time.Time // inclusive
}

// AttendanceRepository define el puerto de persistencia para marcaciones.
// No expone Update ni Delete: una marcación es inmutable una vez creada.
type AttendanceRepository interface {
	Create(ctx context.Context, a *entity.Attendance) error
	GetByID(ctx context.Context, id string) (*entity.AttendanceDetail, error)
	GetByHash(ctx context.Context, hash string) (*entity.AttendanceDetail, error)
	LastByActor(ctx context.Context, actorID string) (*entity.Attendance, error)
	// List devuelve las marcaciones ordenadas por timestamp descendente, con trabajador y empleador.
	List(ctx context.Context, f AttendanceFilter) ([]*entity.AttendanceDetail, error)
	Count(ctx context.Context, f AttendanceFilter) (int, error)
	CountDistinctActors(ctx context.Context, f AttendanceFilter) (int, error)
}
