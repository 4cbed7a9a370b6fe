package postgres

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

func TestBuildFilter_Vacio(t *testing.T) {
	where, args := buildFilter(repository.AttendanceFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)
}

func TestBuildFilter_PlaceholdersEnOrden(t *testing.T) {
	from := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	where, args := buildFilter(repository.AttendanceFilter{
		EmployerID: "emp-1",
		ActorRUT:   "11111111-1",
		Kind:       entity.KindEntrada,
		From:       &from,
	})
	assert.Equal(t, " WHERE m.empleador_id = $1 AND u.rut = $2 AND m.tipo_marcacion = $3 AND m.timestamp >= $4", where)
	assert.Equal(t, []any{"emp-1", "11111111-1", "entrada", from}, args)
}
