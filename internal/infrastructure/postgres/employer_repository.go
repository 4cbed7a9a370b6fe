package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

var _ repository.EmployerRepository = (*EmployerRepo)(nil)

// EmployerRepo implementación de EmployerRepository sobre la tabla empleadores.
type EmployerRepo struct {
	db Querier
}

// NewEmployerRepository construye el adaptador de persistencia para empleadores.
func NewEmployerRepository(db Querier) *EmployerRepo {
	return &EmployerRepo{db: db}
}

func (r *EmployerRepo) Create(ctx context.Context, e *entity.Employer) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO empleadores (id, rut, razon_social, activo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.RUT, e.RazonSocial, e.Active, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: empleador %s", domain.ErrDuplicate, e.RUT)
		}
		return fmt.Errorf("insert empleador: %w", err)
	}
	return nil
}

// GetByID busca un empleador por id; (nil, nil) si no existe.
func (r *EmployerRepo) GetByID(ctx context.Context, id string) (*entity.Employer, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

// GetByRUT busca un empleador por RUT normalizado.
func (r *EmployerRepo) GetByRUT(ctx context.Context, rut string) (*entity.Employer, error) {
	return r.getOne(ctx, `WHERE rut = $1`, rut)
}

func (r *EmployerRepo) getOne(ctx context.Context, where string, arg any) (*entity.Employer, error) {
	var e entity.Employer
	err := r.db.QueryRow(ctx,
		`SELECT id, rut, razon_social, activo, created_at, updated_at FROM empleadores `+where, arg,
	).Scan(&e.ID, &e.RUT, &e.RazonSocial, &e.Active, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empleador: %w", err)
	}
	return &e, nil
}

// Update cambia razón social y estado. Cambiar la razón social invalida la verificación de marcaciones previas.
func (r *EmployerRepo) Update(ctx context.Context, e *entity.Employer) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE empleadores SET razon_social = $2, activo = $3, updated_at = NOW() WHERE id = $1`,
		e.ID, e.RazonSocial, e.Active,
	)
	if err != nil {
		return fmt.Errorf("update empleador: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
