package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/integrity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
	"github.com/jhoicas/marcaciones-api/pkg/rut"
)

const dateOnly = "2006-01-02"

// Query listados de marcaciones acotados por rol.
type Query struct {
	events repository.AttendanceRepository
	cfg    Config
}

// NewQuery construye el caso de uso de consultas.
func NewQuery(events repository.AttendanceRepository, cfg Config) *Query {
	return &Query{events: events, cfg: cfg}
}

// Mine lista las marcaciones propias del actor (trabajador o empleador).
func (q *Query) Mine(ctx context.Context, claims access.Claims, rng dto.DateRangeQuery) ([]dto.AttendanceItem, error) {
	if err := access.Authorize(claims, access.LevelWorker); err != nil {
		return nil, err
	}
	f, err := q.filterFor(rng)
	if err != nil {
		return nil, err
	}
	f.ActorID = claims.ActorID
	return q.list(ctx, f, false)
}

// Last devuelve la última marcación del actor, o nil si no tiene.
func (q *Query) Last(ctx context.Context, claims access.Claims) (*dto.AttendanceItem, error) {
	if err := access.Authorize(claims, access.LevelWorker); err != nil {
		return nil, err
	}
	sctx, cancel := q.cfg.storeContext(ctx)
	defer cancel()

	ev, err := q.events.LastByActor(sctx, claims.ActorID)
	if err != nil {
		return nil, domain.WrapStore("última marcación", err)
	}
	if ev == nil {
		return nil, nil
	}
	item := toItem(&entity.AttendanceDetail{Attendance: *ev}, false)
	return &item, nil
}

// ByEmployer lista las marcaciones de todos los trabajadores del empleador de los claims.
func (q *Query) ByEmployer(ctx context.Context, claims access.Claims, rng dto.DateRangeQuery) ([]dto.AttendanceItem, error) {
	if err := access.Authorize(claims, access.LevelEmployer); err != nil {
		return nil, err
	}
	if !claims.HasEmployer() {
		return nil, fmt.Errorf("%w: usuario sin empleador asociado", domain.ErrForbidden)
	}
	f, err := q.filterFor(rng)
	if err != nil {
		return nil, err
	}
	f.EmployerID = claims.EmployerID
	return q.list(ctx, f, true)
}

// ForInspection lista marcaciones de cualquier empleador para el fiscalizador; employerID vacío no filtra.
func (q *Query) ForInspection(ctx context.Context, claims access.Claims, employerID string, rng dto.DateRangeQuery) ([]dto.AttendanceItem, error) {
	if err := access.Authorize(claims, access.LevelInspector); err != nil {
		return nil, err
	}
	employerID = strings.TrimSpace(employerID)
	if employerID != "" {
		if _, err := uuid.Parse(employerID); err != nil {
			return nil, fmt.Errorf("%w: empleador_id inválido", domain.ErrInvalidInput)
		}
	}
	f, err := q.filterFor(rng)
	if err != nil {
		return nil, err
	}
	f.EmployerID = employerID
	return q.list(ctx, f, true)
}

// HistoryByRUT historial de un trabajador por RUT, en todos sus empleadores.
func (q *Query) HistoryByRUT(ctx context.Context, claims access.Claims, workerRUT string, rng dto.DateRangeQuery) ([]dto.AttendanceItem, error) {
	if err := access.Authorize(claims, access.LevelInspector); err != nil {
		return nil, err
	}
	if strings.TrimSpace(workerRUT) == "" {
		return nil, fmt.Errorf("%w: rut requerido", domain.ErrInvalidInput)
	}
	f, err := q.filterFor(rng)
	if err != nil {
		return nil, err
	}
	f.ActorRUT = rut.Normalize(workerRUT)
	return q.list(ctx, f, true)
}

func (q *Query) list(ctx context.Context, f repository.AttendanceFilter, withParties bool) ([]dto.AttendanceItem, error) {
	sctx, cancel := q.cfg.storeContext(ctx)
	defer cancel()

	rows, err := q.events.List(sctx, f)
	if err != nil {
		return nil, domain.WrapStore("listar marcaciones", err)
	}
	out := make([]dto.AttendanceItem, 0, len(rows))
	for _, d := range rows {
		out = append(out, toItem(d, withParties))
	}
	return out, nil
}

func (q *Query) filterFor(rng dto.DateRangeQuery) (repository.AttendanceFilter, error) {
	from, to, err := ParseRange(rng, q.cfg.location())
	if err != nil {
		return repository.AttendanceFilter{}, err
	}
	return repository.AttendanceFilter{From: from, To: to}, nil
}

// ParseRange interpreta desde/hasta como RFC3339 o AAAA-MM-DD en loc.
// Un hasta con fecha simple cubre el día completo.
func ParseRange(rng dto.DateRangeQuery, loc *time.Location) (from, to *time.Time, err error) {
	if s := strings.TrimSpace(rng.Desde); s != "" {
		t, _, perr := parseDate(s, loc)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: desde: %v", domain.ErrInvalidInput, perr)
		}
		from = &t
	}
	if s := strings.TrimSpace(rng.Hasta); s != "" {
		t, plain, perr := parseDate(s, loc)
		if perr != nil {
			return nil, nil, fmt.Errorf("%w: hasta: %v", domain.ErrInvalidInput, perr)
		}
		if plain {
			t = t.AddDate(0, 0, 1).Add(-time.Millisecond)
		}
		to = &t
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: hasta es anterior a desde", domain.ErrInvalidInput)
	}
	return from, to, nil
}

func parseDate(s string, loc *time.Location) (t time.Time, plain bool, err error) {
	if t, err = time.ParseInLocation(dateOnly, s, loc); err == nil {
		return t, true, nil
	}
	if t, err = time.Parse(time.RFC3339, s); err == nil {
		return t, false, nil
	}
	return time.Time{}, false, fmt.Errorf("fecha %q no es RFC3339 ni AAAA-MM-DD", s)
}

func toItem(d *entity.AttendanceDetail, withParties bool) dto.AttendanceItem {
	item := dto.AttendanceItem{
		ID:            d.ID,
		UsuarioID:     d.ActorID,
		EmpleadorID:   d.EmployerID,
		TipoMarcacion: string(d.Kind),
		Timestamp:     integrity.FormatTimestamp(d.Timestamp),
		Ubicacion:     d.Location,
		Hash:          d.Hash,
		Sincronizado:  d.Synced,
	}
	if !withParties {
		return item
	}
	if d.Actor != nil {
		item.Usuario = &dto.WorkerSummary{
			Rut:             d.Actor.RUT,
			Nombres:         d.Actor.Nombres,
			ApellidoPaterno: d.Actor.ApellidoPaterno,
			ApellidoMaterno: d.Actor.ApellidoMaterno,
			Email:           d.Actor.Email,
		}
	}
	if d.Employer != nil {
		item.Empleador = &dto.EmployerSummary{Rut: d.Employer.RUT, RazonSocial: d.Employer.RazonSocial}
	}
	return item
}
