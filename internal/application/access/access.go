// Package access verifica credenciales Bearer y aplica el control de acceso por rol (RBAC).
//
// Los predicados de rol son funciones puras sobre Claims: no consultan la base de datos,
// los claims se confían tal como fueron emitidos y firmados.
package access

import (
	"fmt"
	"time"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/pkg/jwt"
)

// Claims identidad del actor autenticado. Se pasa explícitamente a cada caso de uso.
type Claims struct {
	ActorID    string
	RUT        string
	Role       string
	EmployerID string // vacío si el actor no está afiliado a un empleador
}

// HasEmployer indica si el actor tiene empleador asociado.
func (c Claims) HasEmployer() bool { return c.EmployerID != "" }

// Level nivel de acceso exigido por una operación.
type Level int

const (
	// LevelWorker acepta trabajador y empleador (el empleador también marca asistencia).
	LevelWorker Level = iota + 1
	// LevelEmployer exige exactamente empleador.
	LevelEmployer
	// LevelInspector exige exactamente fiscalizador.
	LevelInspector
)

func (l Level) String() string {
	switch l {
	case LevelWorker:
		return "trabajador"
	case LevelEmployer:
		return "empleador"
	case LevelInspector:
		return "fiscalizador"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Allows es el predicado único de roles por nivel.
func (l Level) Allows(role string) bool {
	switch l {
	case LevelWorker:
		return role == entity.RoleTrabajador || role == entity.RoleEmpleador
	case LevelEmployer:
		return role == entity.RoleEmpleador
	case LevelInspector:
		return role == entity.RoleFiscalizador
	}
	return false
}

// Authorize devuelve domain.ErrForbidden si el rol de los claims no alcanza el nivel.
func Authorize(c Claims, required Level) error {
	if !required.Allows(c.Role) {
		return fmt.Errorf("%w: rol %q no permitido para nivel %s", domain.ErrForbidden, c.Role, required)
	}
	return nil
}

// Control emite y valida tokens. El secreto llega desde configuración.
type Control struct {
	secret string
	issuer string
	now    func() time.Time
}

// NewControl construye el control de acceso con el secreto de firma.
func NewControl(secret, issuer string) *Control {
	return &Control{secret: secret, issuer: issuer, now: time.Now}
}

// Issue firma un token para los claims con vigencia fija de 24 horas.
func (a *Control) Issue(c Claims) (string, error) {
	return jwt.Generate(a.secret, a.issuer, a.now(), jwt.Claims{
		ActorID:    c.ActorID,
		RUT:        c.RUT,
		Role:       c.Role,
		EmployerID: c.EmployerID,
	})
}

// Authenticate valida el token y devuelve sus claims.
// Un token ausente, malformado, expirado, firmado con otro secreto o sin rol conocido
// produce domain.ErrUnauthenticated.
func (a *Control) Authenticate(token string) (Claims, error) {
	if token == "" {
		return Claims{}, fmt.Errorf("%w: token vacío", domain.ErrUnauthenticated)
	}
	parsed, err := jwt.Parse(a.secret, token)
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if parsed.ActorID == "" || !entity.IsValidRole(parsed.Role) {
		return Claims{}, fmt.Errorf("%w: claims incompletos", domain.ErrUnauthenticated)
	}
	return Claims{
		ActorID:    parsed.ActorID,
		RUT:        parsed.RUT,
		Role:       parsed.Role,
		EmployerID: parsed.EmployerID,
	}, nil
}
