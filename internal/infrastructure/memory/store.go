// Package memory implementa los repositorios en memoria con un mutex.
// Se usa en tests y en modo demo (APP_ENV=memory); no persiste entre reinicios.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// Store contiene todas las tablas. Los repositorios comparten el mismo lock.
type Store struct {
	mu             sync.RWMutex
	actors         map[string]*entity.Actor
	employers      map[string]*entity.Employer
	establishments map[string]*entity.Establishment
	events         []*entity.Attendance
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		actors:         make(map[string]*entity.Actor),
		employers:      make(map[string]*entity.Employer),
		establishments: make(map[string]*entity.Establishment),
	}
}

// Actors repositorio de usuarios.
func (s *Store) Actors() *ActorRepo { return &ActorRepo{s: s} }

// Employers repositorio de empleadores.
func (s *Store) Employers() *EmployerRepo { return &EmployerRepo{s: s} }

// Establishments repositorio de establecimientos.
func (s *Store) Establishments() *EstablishmentRepo { return &EstablishmentRepo{s: s} }

// Attendance repositorio de marcaciones.
func (s *Store) Attendance() *AttendanceRepo { return &AttendanceRepo{s: s} }

var (
	_ repository.ActorRepository         = (*ActorRepo)(nil)
	_ repository.EmployerRepository      = (*EmployerRepo)(nil)
	_ repository.EstablishmentRepository = (*EstablishmentRepo)(nil)
	_ repository.AttendanceRepository    = (*AttendanceRepo)(nil)
)

func copyActor(a *entity.Actor) *entity.Actor {
	if a == nil {
		return nil
	}
	c := *a
	if a.EmployerID != nil {
		id := *a.EmployerID
		c.EmployerID = &id
	}
	return &c
}

func copyEmployer(e *entity.Employer) *entity.Employer {
	if e == nil {
		return nil
	}
	c := *e
	return &c
}

func copyEvent(a *entity.Attendance) *entity.Attendance {
	c := *a
	if a.Location != nil {
		l := *a.Location
		c.Location = &l
	}
	return &c
}

// ── Actores ───────────────────────────────────────────────────────────────────

// ActorRepo implementa repository.ActorRepository.
type ActorRepo struct{ s *Store }

func (r *ActorRepo) Create(ctx context.Context, a *entity.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.actors[a.ID]; ok {
		return fmt.Errorf("%w: usuario %s", domain.ErrDuplicate, a.ID)
	}
	for _, o := range r.s.actors {
		if o.RUT == a.RUT {
			return fmt.Errorf("%w: rut %s", domain.ErrDuplicate, a.RUT)
		}
		if a.Email != "" && strings.EqualFold(o.Email, a.Email) {
			return fmt.Errorf("%w: email %s", domain.ErrDuplicate, a.Email)
		}
	}
	r.s.actors[a.ID] = copyActor(a)
	return nil
}

func (r *ActorRepo) GetByID(ctx context.Context, id string) (*entity.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyActor(r.s.actors[id]), nil
}

func (r *ActorRepo) GetByRUT(ctx context.Context, rut string) (*entity.Actor, error) {
	return r.find(ctx, func(a *entity.Actor) bool { return a.RUT == rut })
}

func (r *ActorRepo) GetByEmail(ctx context.Context, email string) (*entity.Actor, error) {
	return r.find(ctx, func(a *entity.Actor) bool { return strings.EqualFold(a.Email, email) })
}

func (r *ActorRepo) find(ctx context.Context, match func(*entity.Actor) bool) (*entity.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.actors {
		if match(a) {
			return copyActor(a), nil
		}
	}
	return nil, nil
}

func (r *ActorRepo) Update(ctx context.Context, a *entity.Actor) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.actors[a.ID]; !ok {
		return domain.ErrNotFound
	}
	for id, o := range r.s.actors {
		if id != a.ID && a.Email != "" && strings.EqualFold(o.Email, a.Email) {
			return fmt.Errorf("%w: email %s", domain.ErrDuplicate, a.Email)
		}
	}
	r.s.actors[a.ID] = copyActor(a)
	return nil
}

func (r *ActorRepo) Deactivate(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	a, ok := r.s.actors[id]
	if !ok {
		return domain.ErrNotFound
	}
	a.Active = false
	return nil
}

// ListByEmployer devuelve los trabajadores del empleador, los más recientes primero.
func (r *ActorRepo) ListByEmployer(ctx context.Context, employerID string) ([]*entity.Actor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Actor, 0)
	for _, a := range r.s.actors {
		if a.Role == entity.RoleTrabajador && a.BelongsTo(employerID) {
			out = append(out, copyActor(a))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].RUT < out[j].RUT
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ActorRepo) CountActiveByEmployer(ctx context.Context, employerID string) (int, error) {
	list, err := r.ListByEmployer(ctx, employerID)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, a := range list {
		if a.Active {
			n++
		}
	}
	return n, nil
}

// ── Empleadores ───────────────────────────────────────────────────────────────

// EmployerRepo implementa repository.EmployerRepository.
type EmployerRepo struct{ s *Store }

func (r *EmployerRepo) Create(ctx context.Context, e *entity.Employer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.employers {
		if o.ID == e.ID || o.RUT == e.RUT {
			return fmt.Errorf("%w: empleador %s", domain.ErrDuplicate, e.RUT)
		}
	}
	r.s.employers[e.ID] = copyEmployer(e)
	return nil
}

func (r *EmployerRepo) GetByID(ctx context.Context, id string) (*entity.Employer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return copyEmployer(r.s.employers[id]), nil
}

func (r *EmployerRepo) GetByRUT(ctx context.Context, rut string) (*entity.Employer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, e := range r.s.employers {
		if e.RUT == rut {
			return copyEmployer(e), nil
		}
	}
	return nil, nil
}

func (r *EmployerRepo) Update(ctx context.Context, e *entity.Employer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.employers[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.employers[e.ID] = copyEmployer(e)
	return nil
}

// ── Establecimientos ──────────────────────────────────────────────────────────

// EstablishmentRepo implementa repository.EstablishmentRepository.
type EstablishmentRepo struct{ s *Store }

func (r *EstablishmentRepo) Create(ctx context.Context, e *entity.Establishment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.establishments[e.ID]; ok {
		return fmt.Errorf("%w: establecimiento %s", domain.ErrDuplicate, e.ID)
	}
	c := *e
	r.s.establishments[e.ID] = &c
	return nil
}

// ListActiveByEmployer establecimientos activos ordenados por nombre.
func (r *EstablishmentRepo) ListActiveByEmployer(ctx context.Context, employerID string) ([]*entity.Establishment, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.Establishment, 0)
	for _, e := range r.s.establishments {
		if e.EmployerID == employerID && e.Active {
			c := *e
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nombre < out[j].Nombre })
	return out, nil
}

// ── Marcaciones ───────────────────────────────────────────────────────────────

// AttendanceRepo implementa repository.AttendanceRepository. Solo admite inserciones.
type AttendanceRepo struct{ s *Store }

func (r *AttendanceRepo) Create(ctx context.Context, a *entity.Attendance) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, o := range r.s.events {
		if o.ID == a.ID || o.Hash == a.Hash {
			return fmt.Errorf("%w: marcación %s", domain.ErrDuplicate, a.ID)
		}
	}
	r.s.events = append(r.s.events, copyEvent(a))
	return nil
}

func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (*entity.AttendanceDetail, error) {
	return r.findOne(ctx, func(a *entity.Attendance) bool { return a.ID == id })
}

func (r *AttendanceRepo) GetByHash(ctx context.Context, hash string) (*entity.AttendanceDetail, error) {
	return r.findOne(ctx, func(a *entity.Attendance) bool { return a.Hash == hash })
}

func (r *AttendanceRepo) findOne(ctx context.Context, match func(*entity.Attendance) bool) (*entity.AttendanceDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, a := range r.s.events {
		if match(a) {
			return r.detail(a), nil
		}
	}
	return nil, nil
}

// detail une la marcación con el trabajador y el empleador vigentes. Requiere el lock tomado.
func (r *AttendanceRepo) detail(a *entity.Attendance) *entity.AttendanceDetail {
	return &entity.AttendanceDetail{
		Attendance: *copyEvent(a),
		Actor:      copyActor(r.s.actors[a.ActorID]),
		Employer:   copyEmployer(r.s.employers[a.EmployerID]),
	}
}

func (r *AttendanceRepo) LastByActor(ctx context.Context, actorID string) (*entity.Attendance, error) {
	rows, err := r.List(ctx, repository.AttendanceFilter{ActorID: actorID})
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	last := rows[0].Attendance
	return &last, nil
}

func (r *AttendanceRepo) List(ctx context.Context, f repository.AttendanceFilter) ([]*entity.AttendanceDetail, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.AttendanceDetail, 0)
	for i := len(r.s.events) - 1; i >= 0; i-- {
		if a := r.s.events[i]; r.matches(a, f) {
			out = append(out, r.detail(a))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

func (r *AttendanceRepo) Count(ctx context.Context, f repository.AttendanceFilter) (int, error) {
	rows, err := r.List(ctx, f)
	return len(rows), err
}

func (r *AttendanceRepo) CountDistinctActors(ctx context.Context, f repository.AttendanceFilter) (int, error) {
	rows, err := r.List(ctx, f)
	if err != nil {
		return 0, err
	}
	seen := make(map[string]struct{}, len(rows))
	for _, d := range rows {
		seen[d.ActorID] = struct{}{}
	}
	return len(seen), nil
}

func (r *AttendanceRepo) matches(a *entity.Attendance, f repository.AttendanceFilter) bool {
	if f.ActorID != "" && a.ActorID != f.ActorID {
		return false
	}
	if f.EmployerID != "" && a.EmployerID != f.EmployerID {
		return false
	}
	if f.Kind != "" && a.Kind != f.Kind {
		return false
	}
	if f.From != nil && a.Timestamp.Before(*f.From) {
		return false
	}
	if f.To != nil && a.Timestamp.After(*f.To) {
		return false
	}
	if f.ActorRUT != "" {
		actor := r.s.actors[a.ActorID]
		if actor == nil || actor.RUT != f.ActorRUT {
			return false
		}
	}
	return true
}
