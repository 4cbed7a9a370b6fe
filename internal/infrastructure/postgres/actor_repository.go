package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

var _ repository.ActorRepository = (*ActorRepo)(nil)

const actorColumns = `id, rut, nombres, apellido_paterno, apellido_materno, email, telefono,
	password_hash, rol, empleador_id, regimen_especial, activo, created_at, updated_at`

// ActorRepo implementación de ActorRepository sobre la tabla usuarios.
type ActorRepo struct {
	db Querier
}

// NewActorRepository construye el adaptador de persistencia para usuarios.
func NewActorRepository(db Querier) *ActorRepo {
	return &ActorRepo{db: db}
}

// Create persiste un nuevo usuario. RUT o email repetidos devuelven domain.ErrDuplicate.
func (r *ActorRepo) Create(ctx context.Context, a *entity.Actor) error {
	query := `
		INSERT INTO usuarios (` + actorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.db.Exec(ctx, query,
		a.ID, a.RUT, a.Nombres, a.ApellidoPaterno, a.ApellidoMaterno, a.Email, a.Telefono,
		a.PasswordHash, a.Role, a.EmployerID, a.RegimenEspecial, a.Active, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: rut o email ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert usuario: %w", err)
	}
	return nil
}

// GetByID busca un usuario por id; (nil, nil) si no existe.
func (r *ActorRepo) GetByID(ctx context.Context, id string) (*entity.Actor, error) {
	return r.getOne(ctx, `SELECT `+actorColumns+` FROM usuarios WHERE id = $1`, id)
}

// GetByRUT busca por RUT normalizado (sin puntos, con guion).
func (r *ActorRepo) GetByRUT(ctx context.Context, rut string) (*entity.Actor, error) {
	return r.getOne(ctx, `SELECT `+actorColumns+` FROM usuarios WHERE rut = $1`, rut)
}

// GetByEmail busca por email sin distinguir mayúsculas.
func (r *ActorRepo) GetByEmail(ctx context.Context, email string) (*entity.Actor, error) {
	return r.getOne(ctx, `SELECT `+actorColumns+` FROM usuarios WHERE LOWER(email) = LOWER($1)`, email)
}

func (r *ActorRepo) getOne(ctx context.Context, query string, arg any) (*entity.Actor, error) {
	a, err := scanActor(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return a, nil
}

// Update reescribe los campos editables. Una fila inexistente devuelve domain.ErrNotFound.
func (r *ActorRepo) Update(ctx context.Context, a *entity.Actor) error {
	query := `
		UPDATE usuarios SET
			nombres = $2, apellido_paterno = $3, apellido_materno = $4, email = $5, telefono = $6,
			password_hash = $7, regimen_especial = $8, activo = $9, empleador_id = $10, updated_at = $11
		WHERE id = $1`
	tag, err := r.db.Exec(ctx, query,
		a.ID, a.Nombres, a.ApellidoPaterno, a.ApellidoMaterno, a.Email, a.Telefono,
		a.PasswordHash, a.RegimenEspecial, a.Active, a.EmployerID, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email ya registrado", domain.ErrDuplicate)
		}
		return fmt.Errorf("update usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate apaga el flag activo; nunca borra la fila.
func (r *ActorRepo) Deactivate(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `UPDATE usuarios SET activo = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deactivate usuario: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByEmployer trabajadores del empleador, los más recientes primero.
func (r *ActorRepo) ListByEmployer(ctx context.Context, employerID string) ([]*entity.Actor, error) {
	query := `SELECT ` + actorColumns + ` FROM usuarios
		WHERE empleador_id = $1 AND rol = 'trabajador'
		ORDER BY created_at DESC, rut`
	rows, err := r.db.Query(ctx, query, employerID)
	if err != nil {
		return nil, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()

	var list []*entity.Actor
	for rows.Next() {
		a, err := scanActor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan usuario: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func (r *ActorRepo) CountActiveByEmployer(ctx context.Context, employerID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM usuarios WHERE empleador_id = $1 AND rol = 'trabajador' AND activo`,
		employerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count usuarios: %w", err)
	}
	return n, nil
}

func scanActor(row pgx.Row) (*entity.Actor, error) {
	var a entity.Actor
	err := row.Scan(
		&a.ID, &a.RUT, &a.Nombres, &a.ApellidoPaterno, &a.ApellidoMaterno, &a.Email, &a.Telefono,
		&a.PasswordHash, &a.Role, &a.EmployerID, &a.RegimenEspecial, &a.Active, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
