// Package integrity calcula el hash de integridad de una marcación.
//
// El hash es una huella determinista (SHA-256, hex en minúsculas) sobre seis campos en orden fijo,
// unidos por "|":
//
//	RUT trabajador | nombre completo | timestamp ISO-8601 | tipo | RUT empleador | razón social
//
// No lleva sal ni clave: cualquiera con los mismos datos puede recalcularlo, que es lo que
// permite la verificación pública de comprobantes.
package integrity

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

// Separator es el delimitador reservado entre campos.
const Separator = "|"

// TimestampLayout ISO-8601 en UTC con milisegundos y sufijo Z.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// Tuple contiene los seis campos del hash en el orden en que se concatenan.
type Tuple struct {
	ActorRUT     string
	ActorName    string
	Timestamp    string
	Kind         string
	EmployerRUT  string
	EmployerName string
}

// NewTuple arma la tupla a partir de los datos vigentes del trabajador y el empleador.
func NewTuple(actor *entity.Actor, employer *entity.Employer, ts time.Time, kind entity.EventKind) Tuple {
	return Tuple{
		ActorRUT:     actor.RUT,
		ActorName:    actor.FullName(),
		Timestamp:    FormatTimestamp(ts),
		Kind:         string(kind),
		EmployerRUT:  employer.RUT,
		EmployerName: employer.RazonSocial,
	}
}

// FormatTimestamp normaliza un instante al formato que entra en el hash.
func FormatTimestamp(ts time.Time) string {
	return ts.UTC().Format(TimestampLayout)
}

// String devuelve la cadena canónica que se digiere.
func (t Tuple) String() string {
	return strings.Join([]string{
		t.ActorRUT,
		t.ActorName,
		t.Timestamp,
		t.Kind,
		t.EmployerRUT,
		t.EmployerName,
	}, Separator)
}

// Compute devuelve el SHA-256 hex de la tupla.
func Compute(t Tuple) string {
	sum := sha256.Sum256([]byte(t.String()))
	return hex.EncodeToString(sum[:])
}

// Verify recalcula el hash y lo compara exactamente (sensible a mayúsculas) con el informado.
func Verify(t Tuple, claimed string) bool {
	return Compute(t) == claimed
}
