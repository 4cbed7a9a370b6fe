package memory

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
)

// Cuentas de la demo. Todas comparten la contraseña recibida por SeedDemo.
const (
	DemoEmployerRUT  = "76086428-5"
	DemoBossRUT      = "12345678-5"
	DemoWorkerRUT    = "11111111-1"
	DemoInspectorRUT = "22222222-2"
)

// SeedDemo carga un empleador con un usuario empleador, un trabajador y un fiscalizador.
// Se usa con APP_ENV=memory para probar la API sin PostgreSQL.
func SeedDemo(ctx context.Context, s *Store, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("memory: hash demo: %w", err)
	}
	now := time.Now().UTC()
	emp := &entity.Employer{
		ID: "00000000-0000-0000-0000-0000000000e1", RUT: DemoEmployerRUT, RazonSocial: "Comercial Demo SpA",
		Active: true, CreatedAt: now, UpdatedAt: now,
	}
	if err := s.Employers().Create(ctx, emp); err != nil {
		return fmt.Errorf("memory: empleador demo: %w", err)
	}
	empID := emp.ID

	actors := []*entity.Actor{
		{ID: "00000000-0000-0000-0000-0000000000a1", RUT: DemoBossRUT, Nombres: "Marta", ApellidoPaterno: "Soto",
			ApellidoMaterno: "Rojas", Email: "empleador@demo.cl", Role: entity.RoleEmpleador, EmployerID: &empID},
		{ID: "00000000-0000-0000-0000-0000000000a2", RUT: DemoWorkerRUT, Nombres: "Juan", ApellidoPaterno: "Pérez",
			ApellidoMaterno: "González", Email: "trabajador@demo.cl", Role: entity.RoleTrabajador, EmployerID: &empID},
		{ID: "00000000-0000-0000-0000-0000000000a3", RUT: DemoInspectorRUT, Nombres: "Carla", ApellidoPaterno: "Muñoz",
			ApellidoMaterno: "Vera", Email: "fiscalizador@dt.gob.cl", Role: entity.RoleFiscalizador},
	}
	for _, a := range actors {
		a.PasswordHash = string(hash)
		a.Active = true
		a.CreatedAt, a.UpdatedAt = now, now
		if err := s.Actors().Create(ctx, a); err != nil {
			return fmt.Errorf("memory: actor demo %s: %w", a.RUT, err)
		}
	}
	return nil
}
