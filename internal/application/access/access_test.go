package access

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

const testSecret = "test-secret-key-for-unit-tests"

func TestAuthorize_MatrizDeRoles(t *testing.T) {
	cases := []struct {
		role  string
		level Level
		ok    bool
	}{
		{entity.RoleTrabajador, LevelWorker, true},
		{entity.RoleEmpleador, LevelWorker, true},
		{entity.RoleFiscalizador, LevelWorker, false},
		{entity.RoleTrabajador, LevelEmployer, false},
		{entity.RoleEmpleador, LevelEmployer, true},
		{entity.RoleFiscalizador, LevelEmployer, false},
		{entity.RoleTrabajador, LevelInspector, false},
		{entity.RoleEmpleador, LevelInspector, false},
		{entity.RoleFiscalizador, LevelInspector, true},
		{"", LevelWorker, false},
		{"admin", LevelEmployer, false},
	}
	for _, tc := range cases {
		err := Authorize(Claims{ActorID: "a", Role: tc.role}, tc.level)
		if tc.ok {
			assert.NoError(t, err, "%s en %s", tc.role, tc.level)
		} else {
			assert.ErrorIs(t, err, domain.ErrForbidden, "%s en %s", tc.role, tc.level)
		}
	}
}

func TestIssueAndAuthenticate(t *testing.T) {
	ac := NewControl(testSecret, "test")
	in := Claims{ActorID: "actor-1", RUT: "11111111-1", Role: entity.RoleEmpleador, EmployerID: "emp-1"}

	tok, err := ac.Issue(in)
	require.NoError(t, err)

	out, err := ac.Authenticate(tok)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestAuthenticate_Fallas(t *testing.T) {
	ac := NewControl(testSecret, "test")

	_, err := ac.Authenticate("")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = ac.Authenticate("token.invalido.aqui")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	other := NewControl("otro-secret", "test")
	tok, err := other.Issue(Claims{ActorID: "a", Role: entity.RoleTrabajador})
	require.NoError(t, err)
	_, err = ac.Authenticate(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated, "firma con otro secreto")
}

func TestAuthenticate_Expirado(t *testing.T) {
	ac := NewControl(testSecret, "test")
	ac.now = func() time.Time { return time.Now().Add(-24*time.Hour - time.Minute) }
	tok, err := ac.Issue(Claims{ActorID: "a", Role: entity.RoleTrabajador})
	require.NoError(t, err)

	ac.now = time.Now
	_, err = ac.Authenticate(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthenticate_SinRol(t *testing.T) {
	ac := NewControl(testSecret, "test")
	tok, err := ac.Issue(Claims{ActorID: "a"})
	require.NoError(t, err)

	_, err = ac.Authenticate(tok)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}
