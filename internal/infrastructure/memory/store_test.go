package memory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/memory"
)

func ptr(s string) *string { return &s }

func seed(t *testing.T) (*memory.Store, *entity.Employer, *entity.Actor) {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore()
	emp := &entity.Employer{ID: "emp-1", RUT: "99999999-9", RazonSocial: "ACME SpA", Active: true}
	require.NoError(t, s.Employers().Create(ctx, emp))
	act := &entity.Actor{
		ID: "act-1", RUT: "11111111-1", Nombres: "Ana", ApellidoPaterno: "Perez", ApellidoMaterno: "Lopez",
		Email: "ana@acme.cl", Role: entity.RoleTrabajador, EmployerID: ptr(emp.ID), Active: true,
	}
	require.NoError(t, s.Actors().Create(ctx, act))
	return s, emp, act
}

func TestActorRepo_Unicidad(t *testing.T) {
	s, _, _ := seed(t)
	ctx := context.Background()

	err := s.Actors().Create(ctx, &entity.Actor{ID: "x", RUT: "11111111-1", Email: "otro@acme.cl"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	err = s.Actors().Create(ctx, &entity.Actor{ID: "y", RUT: "12345678-5", Email: "ANA@acme.cl"})
	assert.ErrorIs(t, err, domain.ErrDuplicate, "email sin distinguir mayúsculas")
}

func TestActorRepo_NoEncontradoDevuelveNil(t *testing.T) {
	s := memory.NewStore()
	a, err := s.Actors().GetByID(context.Background(), "nadie")
	require.NoError(t, err)
	assert.Nil(t, a)

	assert.ErrorIs(t, s.Actors().Deactivate(context.Background(), "nadie"), domain.ErrNotFound)
}

func TestActorRepo_DevuelveCopias(t *testing.T) {
	s, _, act := seed(t)
	got, err := s.Actors().GetByID(context.Background(), act.ID)
	require.NoError(t, err)
	got.Nombres = "Modificado"

	again, err := s.Actors().GetByID(context.Background(), act.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", again.Nombres)
}

func TestAttendanceRepo_ListYFiltros(t *testing.T) {
	s, emp, act := seed(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	kinds := []entity.EventKind{entity.KindEntrada, entity.KindSalidaAlmuerzo, entity.KindEntradaAlmuerzo, entity.KindSalida}
	for i, k := range kinds {
		require.NoError(t, s.Attendance().Create(ctx, &entity.Attendance{
			ID: string(k), ActorID: act.ID, EmployerID: emp.ID, Kind: k,
			Timestamp: base.Add(time.Duration(i) * time.Hour), Hash: "h-" + string(k), Synced: true,
		}))
	}

	all, err := s.Attendance().List(ctx, repository.AttendanceFilter{EmployerID: emp.ID})
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, entity.KindSalida, all[0].Kind, "más reciente primero")
	require.NotNil(t, all[0].Actor)
	assert.Equal(t, "ACME SpA", all[0].Employer.RazonSocial)

	from, to := base.Add(time.Hour), base.Add(2*time.Hour)
	mid, err := s.Attendance().List(ctx, repository.AttendanceFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, mid, 2, "límites inclusivos")

	n, err := s.Attendance().Count(ctx, repository.AttendanceFilter{ActorRUT: "11111111-1", Kind: entity.KindEntrada})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	distinct, err := s.Attendance().CountDistinctActors(ctx, repository.AttendanceFilter{EmployerID: emp.ID})
	require.NoError(t, err)
	assert.Equal(t, 1, distinct)

	last, err := s.Attendance().LastByActor(ctx, act.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.KindSalida, last.Kind)
}

func TestAttendanceRepo_HashUnico(t *testing.T) {
	s, emp, act := seed(t)
	ctx := context.Background()
	ev := &entity.Attendance{ID: "a", ActorID: act.ID, EmployerID: emp.ID, Kind: entity.KindEntrada, Hash: "abc"}
	require.NoError(t, s.Attendance().Create(ctx, ev))

	dup := *ev
	dup.ID = "b"
	assert.ErrorIs(t, s.Attendance().Create(ctx, &dup), domain.ErrDuplicate)
}

func TestAttendanceRepo_DetalleUsaDatosVigentes(t *testing.T) {
	s, emp, act := seed(t)
	ctx := context.Background()
	require.NoError(t, s.Attendance().Create(ctx, &entity.Attendance{ID: "a", ActorID: act.ID, EmployerID: emp.ID, Kind: entity.KindEntrada, Hash: "abc"}))

	edited := *act
	edited.Nombres = "Anita"
	require.NoError(t, s.Actors().Update(ctx, &edited))

	d, err := s.Attendance().GetByHash(ctx, "abc")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Anita", d.Actor.Nombres)
}

func TestStore_ContextoCancelado(t *testing.T) {
	s := memory.NewStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := s.Attendance().GetByHash(ctx, "abc")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSeedDemo(t *testing.T) {
	s := memory.NewStore()
	ctx := context.Background()
	require.NoError(t, memory.SeedDemo(ctx, s, "demo123"))

	emp, err := s.Employers().GetByRUT(ctx, memory.DemoEmployerRUT)
	require.NoError(t, err)
	require.NotNil(t, emp)

	workers, err := s.Actors().ListByEmployer(ctx, emp.ID)
	require.NoError(t, err)
	assert.Len(t, workers, 1, "solo el trabajador tiene rol trabajador")

	inspector, err := s.Actors().GetByRUT(ctx, memory.DemoInspectorRUT)
	require.NoError(t, err)
	require.NotNil(t, inspector)
	assert.Nil(t, inspector.EmployerID)

	assert.Error(t, memory.SeedDemo(ctx, s, "demo123"), "una segunda carga choca con los RUT existentes")
}
