// Package employer administra los trabajadores de un empleador y sus estadísticas.
package employer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/auth"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// EmployerUseCase operaciones exclusivas del rol empleador.
type EmployerUseCase struct {
	actors       repository.ActorRepository
	events       repository.AttendanceRepository
	loc          *time.Location
	storeTimeout time.Duration
	now          func() time.Time
}

// NewEmployerUseCase construye el caso de uso. loc define los límites de "hoy" y "este mes";
// storeTimeout acota las llamadas a la base de datos de cada operación.
func NewEmployerUseCase(actors repository.ActorRepository, events repository.AttendanceRepository, loc *time.Location, storeTimeout time.Duration) *EmployerUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &EmployerUseCase{actors: actors, events: events, loc: loc, storeTimeout: storeTimeout, now: time.Now}
}

func requireEmployer(c access.Claims) error {
	if err := access.Authorize(c, access.LevelEmployer); err != nil {
		return err
	}
	if !c.HasEmployer() {
		return fmt.Errorf("%w: usuario sin empleador asociado", domain.ErrForbidden)
	}
	return nil
}

// ListWorkers trabajadores del empleador, los más recientes primero.
func (uc *EmployerUseCase) ListWorkers(ctx context.Context, c access.Claims) ([]dto.WorkerResponse, error) {
	if err := requireEmployer(c); err != nil {
		return nil, err
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	list, err := uc.actors.ListByEmployer(sctx, c.EmployerID)
	if err != nil {
		return nil, domain.WrapStore("listar trabajadores", err)
	}
	out := make([]dto.WorkerResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toWorkerResponse(a))
	}
	return out, nil
}

// CreateWorker alta de trabajador en el empleador de los claims.
func (uc *EmployerUseCase) CreateWorker(ctx context.Context, c access.Claims, in dto.CreateWorkerRequest) (*dto.WorkerResponse, error) {
	if err := requireEmployer(c); err != nil {
		return nil, err
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	actor, err := auth.CreateWorker(sctx, uc.actors, in, c.EmployerID, uc.now())
	if err != nil {
		return nil, err
	}
	resp := toWorkerResponse(actor)
	return &resp, nil
}

// UpdateWorker edición parcial. Un trabajador de otro empleador se trata como inexistente.
// Cambiar nombres o apellidos hace que las marcaciones previas dejen de verificar.
func (uc *EmployerUseCase) UpdateWorker(ctx context.Context, c access.Claims, id string, in dto.UpdateWorkerRequest) (*dto.WorkerResponse, error) {
	if err := requireEmployer(c); err != nil {
		return nil, err
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	actor, err := uc.ownWorker(sctx, c, id)
	if err != nil {
		return nil, err
	}

	setName := func(dst *string, src *string, field string) error {
		if src == nil {
			return nil
		}
		v := strings.TrimSpace(*src)
		if v == "" {
			return fmt.Errorf("%w: %s no puede quedar vacío", domain.ErrInvalidInput, field)
		}
		*dst = v
		return nil
	}
	if err := setName(&actor.Nombres, in.Nombres, "nombres"); err != nil {
		return nil, err
	}
	if err := setName(&actor.ApellidoPaterno, in.ApellidoPaterno, "apellido_paterno"); err != nil {
		return nil, err
	}
	if err := setName(&actor.ApellidoMaterno, in.ApellidoMaterno, "apellido_materno"); err != nil {
		return nil, err
	}
	if in.Email != nil {
		email, err := auth.NormalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if email != actor.Email {
			other, err := uc.actors.GetByEmail(sctx, email)
			if err != nil {
				return nil, domain.WrapStore("buscar email", err)
			}
			if other != nil && other.ID != actor.ID {
				return nil, fmt.Errorf("%w: el email ya está registrado", domain.ErrDuplicate)
			}
			actor.Email = email
		}
	}
	if in.Telefono != nil {
		actor.Telefono = strings.TrimSpace(*in.Telefono)
	}
	if in.RegimenEspecial != nil {
		actor.RegimenEspecial = *in.RegimenEspecial
	}
	actor.UpdatedAt = uc.now()

	if err := uc.actors.Update(sctx, actor); err != nil {
		return nil, domain.WrapStore("actualizar trabajador", err)
	}
	resp := toWorkerResponse(actor)
	return &resp, nil
}

// DeactivateWorker desactivación lógica; el trabajador y sus marcaciones se conservan.
func (uc *EmployerUseCase) DeactivateWorker(ctx context.Context, c access.Claims, id string) error {
	if err := requireEmployer(c); err != nil {
		return err
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	if _, err := uc.ownWorker(sctx, c, id); err != nil {
		return err
	}
	return domain.WrapStore("desactivar trabajador", uc.actors.Deactivate(sctx, id))
}

// Stats indicadores del día y del mes en la zona horaria configurada.
func (uc *EmployerUseCase) Stats(ctx context.Context, c access.Claims) (*dto.EmployerStatsResponse, error) {
	if err := requireEmployer(c); err != nil {
		return nil, err
	}
	now := uc.now().In(uc.loc)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, uc.loc)
	dayEnd := dayStart.AddDate(0, 0, 1).Add(-time.Millisecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, uc.loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Millisecond)

	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	total, err := uc.actors.CountActiveByEmployer(sctx, c.EmployerID)
	if err != nil {
		return nil, domain.WrapStore("contar trabajadores", err)
	}
	today := repository.AttendanceFilter{EmployerID: c.EmployerID, From: &dayStart, To: &dayEnd}
	checkInsToday := today
	checkInsToday.Kind = entity.KindEntrada

	activeToday, err := uc.events.CountDistinctActors(sctx, checkInsToday)
	if err != nil {
		return nil, domain.WrapStore("contar trabajadores activos", err)
	}
	eventsToday, err := uc.events.Count(sctx, today)
	if err != nil {
		return nil, domain.WrapStore("contar marcaciones del día", err)
	}
	eventsMonth, err := uc.events.Count(sctx, repository.AttendanceFilter{EmployerID: c.EmployerID, From: &monthStart, To: &monthEnd})
	if err != nil {
		return nil, domain.WrapStore("contar marcaciones del mes", err)
	}

	return &dto.EmployerStatsResponse{
		TotalTrabajadores:      total,
		TrabajadoresActivosHoy: activeToday,
		MarcacionesHoy:         eventsToday,
		MarcacionesMes:         eventsMonth,
	}, nil
}

// ownWorker un id que no es UUID no puede existir y se responde como inexistente sin consultar.
func (uc *EmployerUseCase) ownWorker(ctx context.Context, c access.Claims, id string) (*entity.Actor, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	actor, err := uc.actors.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapStore("obtener trabajador", err)
	}
	if actor == nil || actor.Role != entity.RoleTrabajador || !actor.BelongsTo(c.EmployerID) {
		return nil, domain.ErrNotFound
	}
	return actor, nil
}

func toWorkerResponse(a *entity.Actor) dto.WorkerResponse {
	return dto.WorkerResponse{
		ID:              a.ID,
		Rut:             a.RUT,
		Nombres:         a.Nombres,
		ApellidoPaterno: a.ApellidoPaterno,
		ApellidoMaterno: a.ApellidoMaterno,
		Email:           a.Email,
		Telefono:        a.Telefono,
		Rol:             a.Role,
		RegimenEspecial: a.RegimenEspecial,
		Activo:          a.Active,
	}
}
