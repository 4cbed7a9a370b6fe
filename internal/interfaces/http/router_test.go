package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/attendance"
	"github.com/jhoicas/marcaciones-api/internal/application/auth"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/application/employer"
	"github.com/jhoicas/marcaciones-api/internal/application/establishment"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/metrics"
	"github.com/jhoicas/marcaciones-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/marcaciones-api/internal/interfaces/http"
	"github.com/jhoicas/marcaciones-api/pkg/ratelimit"
)

const (
	workerPassword = "secreto123"
	fixEmployerID  = "7d3f0c2e-5b1a-4c8e-9f00-000000000001"
)

type apiFixture struct {
	app      *fiber.App
	store    *memory.Store
	recorder *attendance.Recorder
	ac       *access.Control
	metrics  *metrics.Prometheus
	employer *entity.Employer
	worker   *entity.Actor
	boss     *entity.Actor
	fiscal   *entity.Actor
}

func newAPIFixture(t *testing.T, limiter *ratelimit.KeyLimiter) *apiFixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()

	emp := &entity.Employer{ID: fixEmployerID, RUT: "99999999-9", RazonSocial: "ACME SpA", Active: true}
	require.NoError(t, st.Employers().Create(ctx, emp))

	hash, err := bcrypt.GenerateFromPassword([]byte(workerPassword), bcrypt.MinCost)
	require.NoError(t, err)
	empID := emp.ID
	newActor := func(id, rut, role string, employerID *string) *entity.Actor {
		a := &entity.Actor{
			ID: id, RUT: rut, Nombres: "Ana", ApellidoPaterno: "Perez", ApellidoMaterno: "Lopez",
			Email: id + "@acme.cl", PasswordHash: string(hash), Role: role, EmployerID: employerID, Active: true,
		}
		require.NoError(t, st.Actors().Create(ctx, a))
		return a
	}
	worker := newActor("7d3f0c2e-5b1a-4c8e-9f00-0000000000a1", "11111111-1", entity.RoleTrabajador, &empID)
	boss := newActor("7d3f0c2e-5b1a-4c8e-9f00-0000000000a2", "22222222-2", entity.RoleEmpleador, &empID)
	fiscal := newActor("7d3f0c2e-5b1a-4c8e-9f00-0000000000a3", "33333333-3", entity.RoleFiscalizador, nil)

	cfg := attendance.Config{
		StoreTimeout:  time.Second,
		NotifyTimeout: time.Second,
		Location:      time.UTC,
		PublicURL:     "https://marcaciones.test",
	}
	prom := metrics.NewPrometheus()
	ac := access.NewControl(testJWTSecret, testIssuer)
	rec := attendance.NewRecorder(st.Actors(), st.Employers(), st.Attendance(), nil, prom, zerolog.Nop(), cfg)

	app := apphttp.NewApp(apphttp.RouterDeps{
		ServiceName:     "marcaciones-test",
		Access:          ac,
		AuthUC:          auth.NewAuthUseCase(st.Actors(), st.Employers(), ac, time.Second),
		Recorder:        rec,
		Verifier:        attendance.NewVerifier(st.Attendance(), prom, cfg),
		Query:           attendance.NewQuery(st.Attendance(), cfg),
		Receipts:        attendance.NewReceiptUseCase(st.Attendance(), pdf.NewMarotoReceiptGenerator(), cfg),
		EmployerUC:      employer.NewEmployerUseCase(st.Actors(), st.Attendance(), time.UTC, time.Second),
		EstablishmentUC: establishment.NewEstablishmentUseCase(st.Establishments(), time.Second),
		VerifyLimiter:   limiter,
		OnRateLimited:   prom.RateLimited,
		Metrics:         prom.Handler(),
		Log:             zerolog.Nop(),
	})
	return &apiFixture{
		app: app, store: st, recorder: rec, ac: ac, metrics: prom,
		employer: emp, worker: worker, boss: boss, fiscal: fiscal,
	}
}

func (f *apiFixture) bearer(t *testing.T, a *entity.Actor) string {
	t.Helper()
	claims := access.Claims{ActorID: a.ID, RUT: a.RUT, Role: a.Role}
	if a.EmployerID != nil {
		claims.EmployerID = *a.EmployerID
	}
	tok, err := f.ac.Issue(claims)
	require.NoError(t, err)
	return "Bearer " + tok
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/health", "", nil)

	var body map[string]string
	decode(t, resp, &body)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestFlujo_LoginMarcarVerificar(t *testing.T) {
	f := newAPIFixture(t, nil)

	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Rut: "11.111.111-1", Password: workerPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var login dto.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, entity.RoleTrabajador, login.Usuario.Rol)

	resp = f.do(t, http.MethodPost, "/api/marcaciones", "Bearer "+login.Token, dto.CreateAttendanceRequest{TipoMarcacion: "entrada"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created dto.AttendanceResponse
	decode(t, resp, &created)
	assert.Len(t, created.Hash, 64)
	assert.Equal(t, "entrada", created.TipoMarcacion)

	resp = f.do(t, http.MethodPost, "/api/marcaciones/verificar", "", dto.VerifyRequest{Hash: created.Hash})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var verified dto.VerifyResponse
	decode(t, resp, &verified)
	assert.True(t, verified.Valido)
	assert.Equal(t, "11111111-1", verified.Marcacion.Trabajador.Rut)
	assert.Equal(t, "Ana Perez Lopez", verified.Marcacion.Trabajador.Nombre)
	assert.Equal(t, "ACME SpA", verified.Marcacion.Empleador.RazonSocial)

	resp = f.do(t, http.MethodGet, "/api/marcaciones/ultima", "Bearer "+login.Token, nil)
	var last dto.AttendanceItem
	decode(t, resp, &last)
	assert.Equal(t, created.ID, last.ID)
	f.recorder.Wait()
}

func TestLogin_CredencialesInvalidas_Retorna401(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Rut: "11111111-1", Password: "otra"})

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHENTICATED", body.Code)
}

func TestMarcar_SinToken_Retorna401(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones", "", dto.CreateAttendanceRequest{TipoMarcacion: "entrada"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMarcar_Fiscalizador_Retorna403(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones", f.bearer(t, f.fiscal), dto.CreateAttendanceRequest{TipoMarcacion: "entrada"})

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Code)
}

func TestMarcar_TipoInvalido_Retorna400(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones", f.bearer(t, f.worker), dto.CreateAttendanceRequest{TipoMarcacion: "pausa"})

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestMarcar_EmpleadorInactivo_Retorna400(t *testing.T) {
	f := newAPIFixture(t, nil)
	f.employer.Active = false
	require.NoError(t, f.store.Employers().Update(context.Background(), f.employer))

	resp := f.do(t, http.MethodPost, "/api/marcaciones", f.bearer(t, f.worker), dto.CreateAttendanceRequest{TipoMarcacion: "salida"})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "INVALID_EMPLOYER", body.Code)
}

func TestEmpleador_TrabajadorBloqueado(t *testing.T) {
	f := newAPIFixture(t, nil)
	for _, path := range []string{"/api/empleador/trabajadores", "/api/empleador/marcaciones", "/api/empleador/estadisticas"} {
		resp := f.do(t, http.MethodGet, path, f.bearer(t, f.worker), nil)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, path)
		resp.Body.Close()
	}

	resp := f.do(t, http.MethodGet, "/api/empleador/trabajadores", f.bearer(t, f.boss), nil)
	var workers []dto.WorkerResponse
	decode(t, resp, &workers)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, workers, 1)
	assert.Equal(t, f.worker.ID, workers[0].ID)
}

func TestFiscalizacion_SoloFiscalizador(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/api/fiscalizacion/marcaciones?empleador_id="+fixEmployerID, f.bearer(t, f.boss), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/api/fiscalizacion/trabajador/11111111-1", f.bearer(t, f.fiscal), nil)
	var items []dto.AttendanceItem
	decode(t, resp, &items)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, items)
}

func TestVerificar_HashDesconocido_Retorna404(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones/verificar", "", dto.VerifyRequest{Hash: "no-existe"})

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestVerificar_HashVacio_Retorna400(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones/verificar", "", dto.VerifyRequest{Hash: "  "})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVerificar_LimiteDeTasa_Retorna429(t *testing.T) {
	f := newAPIFixture(t, ratelimit.New(0.001, 2, time.Minute))

	for i := 0; i < 2; i++ {
		resp := f.do(t, http.MethodPost, "/api/marcaciones/verificar", "", dto.VerifyRequest{Hash: "x"})
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	}

	resp := f.do(t, http.MethodPost, "/api/marcaciones/verificar", "", dto.VerifyRequest{Hash: "x"})
	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "RATE_LIMITED", body.Code)
	assert.Equal(t, "1", resp.Header.Get("Retry-After"))
}

func TestMetrics_Expuestas(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones", f.bearer(t, f.worker), dto.CreateAttendanceRequest{TipoMarcacion: "entrada"})
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = f.do(t, http.MethodGet, "/metrics", "", nil)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `marcaciones_registradas_total{tipo="entrada"} 1`)
}

func TestRutaInexistente_Retorna404(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodGet, "/api/no-existe", "", nil)

	var body dto.ErrorResponse
	decode(t, resp, &body)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", body.Code)
}

func TestComprobante_PropietarioYEmpleador(t *testing.T) {
	f := newAPIFixture(t, nil)
	resp := f.do(t, http.MethodPost, "/api/marcaciones", f.bearer(t, f.worker), dto.CreateAttendanceRequest{TipoMarcacion: "entrada"})
	var created dto.AttendanceResponse
	decode(t, resp, &created)
	path := "/api/marcaciones/" + created.ID + "/comprobante"

	for _, a := range []*entity.Actor{f.worker, f.boss} {
		resp = f.do(t, http.MethodGet, path, f.bearer(t, a), nil)
		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode, a.Role)
		assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(body, []byte("%PDF")))
	}

	resp = f.do(t, http.MethodGet, path, f.bearer(t, f.fiscal), nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestIDsNoUUID_NoSonErrorDeInfraestructura(t *testing.T) {
	f := newAPIFixture(t, nil)
	nombre := "Anita"

	cases := []struct {
		name   string
		method string
		path   string
		actor  *entity.Actor
		body   interface{}
		status int
	}{
		{"comprobante", http.MethodGet, "/api/marcaciones/abc/comprobante", f.worker, nil, http.StatusNotFound},
		{"editar trabajador", http.MethodPut, "/api/empleador/trabajadores/abc", f.boss, dto.UpdateWorkerRequest{Nombres: &nombre}, http.StatusNotFound},
		{"desactivar trabajador", http.MethodDelete, "/api/empleador/trabajadores/abc", f.boss, nil, http.StatusNotFound},
		{"fiscalización por empleador", http.MethodGet, "/api/fiscalizacion/marcaciones?empleador_id=abc", f.fiscal, nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.do(t, tc.method, tc.path, f.bearer(t, tc.actor), tc.body)
			var body dto.ErrorResponse
			decode(t, resp, &body)
			assert.Equal(t, tc.status, resp.StatusCode)
			assert.NotEqual(t, "UNAVAILABLE", body.Code)
		})
	}
}

func TestRegistro_EmpleadorIDInvalido_Retorna400(t *testing.T) {
	f := newAPIFixture(t, nil)
	for _, id := range []string{"", "abc"} {
		resp := f.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
			Rut: "12345678-5", Nombres: "Luis", ApellidoPaterno: "Soto", ApellidoMaterno: "Vera",
			Email: "luis@acme.cl", Password: "secreto1", EmpleadorID: id,
		})
		var body dto.ErrorResponse
		decode(t, resp, &body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, id)
		assert.Equal(t, "VALIDATION", body.Code, id)
	}
}
