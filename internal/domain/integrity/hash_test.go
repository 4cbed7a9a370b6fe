package integrity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/integrity"
)

// Vector calculado con SHA-256 sobre la cadena:
//
//	"11111111-1|Ana Perez Lopez|2024-01-10T09:00:00.000Z|check-in|99999999-9|ACME SpA"
const (
	vectorHash       = "1c888bf8b25c3ce08f6bb619af45d34b1c7a531e52637c56d7dede503825fd6f"
	vectorHashPlus1s = "507c367756448857e8d2221e6353ecef9870c5709acf175985739854c7e31892"
	vectorEntrada    = "c89a1ce3468e7e921c9b119ee8922469068167b9f81204a7dcf03d5018cc656c"
)

func vectorTuple() integrity.Tuple {
	return integrity.Tuple{
		ActorRUT:     "11111111-1",
		ActorName:    "Ana Perez Lopez",
		Timestamp:    "2024-01-10T09:00:00.000Z",
		Kind:         "check-in",
		EmployerRUT:  "99999999-9",
		EmployerName: "ACME SpA",
	}
}

func TestCompute_VectorExacto(t *testing.T) {
	tuple := vectorTuple()
	assert.Equal(t, "11111111-1|Ana Perez Lopez|2024-01-10T09:00:00.000Z|check-in|99999999-9|ACME SpA", tuple.String())
	assert.Equal(t, vectorHash, integrity.Compute(tuple))
}

func TestCompute_CambioDeUnSegundo(t *testing.T) {
	tuple := vectorTuple()
	tuple.Timestamp = "2024-01-10T09:00:01.000Z"
	got := integrity.Compute(tuple)
	assert.Equal(t, vectorHashPlus1s, got)
	assert.NotEqual(t, vectorHash, got)
}

func TestCompute_Determinista(t *testing.T) {
	tuple := vectorTuple()
	for i := 0; i < 10; i++ {
		assert.Equal(t, vectorHash, integrity.Compute(tuple))
	}
}

func TestCompute_LongitudYMinusculas(t *testing.T) {
	h := integrity.Compute(vectorTuple())
	assert.Len(t, h, 64, "SHA-256 en hex son 64 caracteres")
	assert.Regexp(t, "^[0-9a-f]{64}$", h)
}

// Cambiar un solo carácter en cualquiera de los seis campos cambia el hash.
func TestCompute_SensibleACadaCampo(t *testing.T) {
	base := integrity.Compute(vectorTuple())
	mutations := map[string]func(*integrity.Tuple){
		"actor_rut":     func(t *integrity.Tuple) { t.ActorRUT = "11111111-2" },
		"actor_name":    func(t *integrity.Tuple) { t.ActorName = "Ana Perez Lopex" },
		"timestamp":     func(t *integrity.Tuple) { t.Timestamp = "2024-01-10T09:00:00.001Z" },
		"kind":          func(t *integrity.Tuple) { t.Kind = "check-out" },
		"employer_rut":  func(t *integrity.Tuple) { t.EmployerRUT = "99999999-8" },
		"employer_name": func(t *integrity.Tuple) { t.EmployerName = "ACME SpB" },
	}
	seen := map[string]string{base: "base"}
	for name, mutate := range mutations {
		tuple := vectorTuple()
		mutate(&tuple)
		h := integrity.Compute(tuple)
		assert.NotEqual(t, base, h, "mutar %s debe cambiar el hash", name)
		_, dup := seen[h]
		assert.False(t, dup, "colisión al mutar %s", name)
		seen[h] = name
	}
}

func TestVerify(t *testing.T) {
	tuple := vectorTuple()
	assert.True(t, integrity.Verify(tuple, integrity.Compute(tuple)))
	assert.False(t, integrity.Verify(tuple, vectorHashPlus1s))
	assert.False(t, integrity.Verify(tuple, ""))
}

func TestVerify_SensibleAMayusculas(t *testing.T) {
	upper := "1C888BF8B25C3CE08F6BB619AF45D34B1C7A531E52637C56D7DEDE503825FD6F"
	assert.False(t, integrity.Verify(vectorTuple(), upper))
}

func TestNewTuple_DesdeEntidades(t *testing.T) {
	actor := &entity.Actor{RUT: "11111111-1", Nombres: "Ana", ApellidoPaterno: "Perez", ApellidoMaterno: "Lopez"}
	employer := &entity.Employer{RUT: "99999999-9", RazonSocial: "ACME SpA"}
	santiago := time.FixedZone("CLT", -3*3600)
	ts := time.Date(2024, 1, 10, 6, 0, 0, 0, santiago)

	tuple := integrity.NewTuple(actor, employer, ts, entity.KindEntrada)
	require.Equal(t, "2024-01-10T09:00:00.000Z", tuple.Timestamp, "el timestamp se normaliza a UTC")
	assert.Equal(t, "Ana Perez Lopez", tuple.ActorName)
	assert.Equal(t, "entrada", tuple.Kind)
	assert.Equal(t, vectorEntrada, integrity.Compute(tuple))
}
