package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
)

func TestWriteError_Mapeo(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", ""},
		{domain.ErrUnauthorized, http.StatusUnauthorized, "UNAUTHENTICATED", "credenciales inválidas"},
		{fmt.Errorf("%w: rol", domain.ErrForbidden), http.StatusForbidden, "FORBIDDEN", ""},
		{domain.ErrInvalidActor, http.StatusBadRequest, "INVALID_ACTOR", ""},
		{domain.ErrInvalidEmployer, http.StatusBadRequest, "INVALID_EMPLOYER", ""},
		{fmt.Errorf("%w: email inválido", domain.ErrInvalidInput), http.StatusBadRequest, "VALIDATION", "email inválido"},
		{fmt.Errorf("%w: rut ya registrado", domain.ErrDuplicate), http.StatusConflict, "DUPLICATE", "rut ya registrado"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", ""},
		{domain.WrapStore("crear", fmt.Errorf("conexión rechazada")), http.StatusServiceUnavailable, "UNAVAILABLE", ""},
		{fmt.Errorf("inesperado"), http.StatusInternalServerError, "INTERNAL", ""},
	}
	for _, tc := range cases {
		app := fiber.New()
		err := tc.err
		app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })

		resp, rerr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		require.NoError(t, rerr)
		var body dto.ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tc.status, resp.StatusCode, tc.err.Error())
		assert.Equal(t, tc.code, body.Code)
		if tc.message != "" {
			assert.Contains(t, body.Message, tc.message)
		}
	}
}

func TestWriteError_NoExponeInfraestructura(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return writeError(c, domain.WrapStore("crear", fmt.Errorf("password=secreto host=db")))
	})
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.NotContains(t, body.Message, "secreto")
}
