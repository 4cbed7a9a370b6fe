// Package attendance registra, verifica y consulta marcaciones de asistencia.
package attendance

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/integrity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// Recorder crea marcaciones. Cada llamada lee trabajador y empleador, calcula el hash,
// persiste y dispara la notificación sin esperar su resultado.
type Recorder struct {
	actors    repository.ActorRepository
	employers repository.EmployerRepository
	events    repository.AttendanceRepository
	notifier  Notifier
	metrics   Metrics
	log       zerolog.Logger
	cfg       Config

	now     func() time.Time
	pending sync.WaitGroup
}

// NewRecorder construye el caso de uso. notifier puede ser nil.
func NewRecorder(
	actors repository.ActorRepository,
	employers repository.EmployerRepository,
	events repository.AttendanceRepository,
	notifier Notifier,
	metrics Metrics,
	log zerolog.Logger,
	cfg Config,
) *Recorder {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &Recorder{
		actors:    actors,
		employers: employers,
		events:    events,
		notifier:  notifier,
		metrics:   metrics,
		log:       log,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Record registra una marcación para el actor de los claims.
//
// Retorna:
//   - domain.ErrForbidden       si el rol no es trabajador ni empleador.
//   - domain.ErrInvalidInput    si el tipo de marcación no es válido.
//   - domain.ErrInvalidActor    si el actor no existe o está inactivo.
//   - domain.ErrInvalidEmployer si su empleador no existe o está inactivo.
//   - domain.ErrInfrastructure  si la base de datos falla o expira el timeout.
func (r *Recorder) Record(ctx context.Context, claims access.Claims, in dto.CreateAttendanceRequest) (*dto.AttendanceResponse, error) {
	if err := access.Authorize(claims, access.LevelWorker); err != nil {
		return nil, err
	}
	kind, ok := entity.ParseEventKind(in.TipoMarcacion)
	if !ok {
		return nil, fmt.Errorf("%w: tipo de marcación %q no válido", domain.ErrInvalidInput, in.TipoMarcacion)
	}

	sctx, cancel := r.cfg.storeContext(ctx)
	defer cancel()

	// ── 1. Trabajador activo ──────────────────────────────────────────────────
	actor, err := r.actors.GetByID(sctx, claims.ActorID)
	if err != nil {
		return nil, domain.WrapStore("obtener usuario", err)
	}
	if actor == nil || !actor.Active {
		return nil, domain.ErrInvalidActor
	}

	// ── 2. Empleador activo ───────────────────────────────────────────────────
	if actor.EmployerID == nil {
		return nil, domain.ErrInvalidEmployer
	}
	employer, err := r.employers.GetByID(sctx, *actor.EmployerID)
	if err != nil {
		return nil, domain.WrapStore("obtener empleador", err)
	}
	if employer == nil || !employer.Active {
		return nil, domain.ErrInvalidEmployer
	}

	// ── 3. Timestamp del servidor y hash ──────────────────────────────────────
	ts := r.now().UTC().Truncate(time.Millisecond)
	ev := &entity.Attendance{
		ID:         uuid.New().String(),
		ActorID:    actor.ID,
		EmployerID: employer.ID,
		Kind:       kind,
		Timestamp:  ts,
		Location:   cleanLocation(in.Ubicacion),
		Hash:       integrity.Compute(integrity.NewTuple(actor, employer, ts, kind)),
		Synced:     true,
	}

	// ── 4. Persistir ──────────────────────────────────────────────────────────
	if err := r.events.Create(sctx, ev); err != nil {
		return nil, domain.WrapStore("guardar marcación", err)
	}
	r.metrics.EventRecorded(kind)
	r.log.Info().
		Str("marcacion_id", ev.ID).
		Str("usuario_id", actor.ID).
		Str("tipo", string(kind)).
		Msg("marcación registrada")

	// ── 5. Notificación (no bloquea la respuesta) ─────────────────────────────
	r.notify(buildReceipt(r.cfg, ev, actor, employer), actor)

	return &dto.AttendanceResponse{
		ID:            ev.ID,
		TipoMarcacion: string(ev.Kind),
		Timestamp:     integrity.FormatTimestamp(ev.Timestamp),
		Ubicacion:     ev.Location,
		Hash:          ev.Hash,
	}, nil
}

// Wait bloquea hasta que terminen las notificaciones en curso (apagado ordenado y tests).
func (r *Recorder) Wait() {
	r.pending.Wait()
}

func (r *Recorder) notify(rc Receipt, actor *entity.Actor) {
	if r.notifier == nil {
		return
	}
	r.pending.Add(1)
	go func() {
		defer r.pending.Done()
		defer func() {
			if p := recover(); p != nil {
				r.metrics.NotificationFailed()
				r.log.Error().Interface("panic", p).Str("marcacion_id", rc.EventID).Msg("notificación de marcación abortada")
			}
		}()

		ctx := context.Background()
		if r.cfg.NotifyTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, r.cfg.NotifyTimeout)
			defer cancel()
		}
		if err := r.notifier.SendReceipt(ctx, rc, actor); err != nil {
			r.metrics.NotificationFailed()
			r.log.Warn().Err(err).Str("marcacion_id", rc.EventID).Msg("notificación de marcación fallida")
		}
	}()
}

func cleanLocation(loc *string) *string {
	if loc == nil {
		return nil
	}
	s := strings.TrimSpace(*loc)
	if s == "" {
		return nil
	}
	return &s
}
