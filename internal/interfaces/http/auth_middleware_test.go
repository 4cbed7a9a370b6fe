package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	apphttp "github.com/jhoicas/marcaciones-api/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret  = "test-secret-key-for-unit-tests"
	testActorID    = "00000000-0000-0000-0000-000000000001"
	testEmployerID = "00000000-0000-0000-0000-000000000002"
	testIssuer     = "marcaciones-test"
)

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para validar el JWT y cargar los claims
//   - RequireLevel para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(level access.Level) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(access.NewControl(testJWTSecret, testIssuer)),
		apphttp.RequireLevel(level),
		func(c *fiber.Ctx) error {
			claims, _ := apphttp.GetClaims(c)
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": claims.Role,
			})
		},
	)
	return app
}

// tokenForRole genera un JWT con el rol indicado.
func tokenForRole(t *testing.T, role string) string {
	t.Helper()
	tok, err := access.NewControl(testJWTSecret, testIssuer).Issue(access.Claims{
		ActorID: testActorID, RUT: "11111111-1", Role: role, EmployerID: testEmployerID,
	})
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequireLevel
// ──────────────────────────────────────────────────────────────────────────────

func TestRequireLevel_TrabajadorYEmpleadorEnNivelTrabajador(t *testing.T) {
	app := buildTestApp(access.LevelWorker)
	for _, role := range []string{entity.RoleTrabajador, entity.RoleEmpleador} {
		resp := doRequest(t, app, tokenForRole(t, role))
		assert.Equal(t, http.StatusOK, resp.StatusCode, role)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, role, body["role"])
		resp.Body.Close()
	}
}

func TestRequireLevel_FiscalizadorNoPuedeMarcar(t *testing.T) {
	app := buildTestApp(access.LevelWorker)
	resp := doRequest(t, app, tokenForRole(t, entity.RoleFiscalizador))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN")
}

func TestRequireLevel_TrabajadorBloqueadoEnEmpleadorYFiscalizacion(t *testing.T) {
	for _, level := range []access.Level{access.LevelEmployer, access.LevelInspector} {
		resp := doRequest(t, buildTestApp(level), tokenForRole(t, entity.RoleTrabajador))
		assert.Equal(t, http.StatusForbidden, resp.StatusCode, level.String())
		resp.Body.Close()
	}
}

func TestRequireLevel_EmpleadorNoEsFiscalizador(t *testing.T) {
	resp := doRequest(t, buildTestApp(access.LevelInspector), tokenForRole(t, entity.RoleEmpleador))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(access.LevelWorker), "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "UNAUTHENTICATED")
}

func TestAuthMiddleware_FormatoInvalido_Retorna401(t *testing.T) {
	tok := tokenForRole(t, entity.RoleTrabajador)
	resp := doRequest(t, buildTestApp(access.LevelWorker), tok[len("Bearer "):])
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "sin prefijo Bearer")
}

func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	resp := doRequest(t, buildTestApp(access.LevelWorker), "Bearer token.invalido.aqui")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenSinRol_Retorna401(t *testing.T) {
	tok, err := access.NewControl(testJWTSecret, testIssuer).Issue(access.Claims{ActorID: testActorID})
	require.NoError(t, err)

	resp := doRequest(t, buildTestApp(access.LevelWorker), "Bearer "+tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(access.NewControl(testJWTSecret, testIssuer)), func(c *fiber.Ctx) error {
		claims, ok := apphttp.GetClaims(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{
			"id":           claims.ActorID,
			"empleador_id": claims.EmployerID,
			"rol":          claims.Role,
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenForRole(t, entity.RoleEmpleador))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testActorID, body["id"])
	assert.Equal(t, testEmployerID, body["empleador_id"])
	assert.Equal(t, entity.RoleEmpleador, body["rol"])
}
