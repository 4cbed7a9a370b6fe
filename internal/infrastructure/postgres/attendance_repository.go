package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

var _ repository.AttendanceRepository = (*AttendanceRepo)(nil)

// detailSelect une cada marcación con el trabajador y el empleador vigentes.
const detailSelect = `
	SELECT m.id, m.usuario_id, m.empleador_id, m.tipo_marcacion, m.timestamp, m.ubicacion, m.hash, m.sincronizado,
	       u.id, u.rut, u.nombres, u.apellido_paterno, u.apellido_materno, u.email, u.telefono,
	       u.password_hash, u.rol, u.empleador_id, u.regimen_especial, u.activo, u.created_at, u.updated_at,
	       e.id, e.rut, e.razon_social, e.activo, e.created_at, e.updated_at
	FROM marcaciones m
	JOIN usuarios u ON u.id = m.usuario_id
	JOIN empleadores e ON e.id = m.empleador_id`

// AttendanceRepo implementación de AttendanceRepository. Solo inserta y lee: no hay UPDATE ni DELETE.
type AttendanceRepo struct {
	db Querier
}

// NewAttendanceRepository construye el adaptador de persistencia para marcaciones.
func NewAttendanceRepository(db Querier) *AttendanceRepo {
	return &AttendanceRepo{db: db}
}

// Create inserta la marcación. Un hash repetido devuelve domain.ErrDuplicate.
func (r *AttendanceRepo) Create(ctx context.Context, a *entity.Attendance) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO marcaciones (id, usuario_id, empleador_id, tipo_marcacion, timestamp, ubicacion, hash, sincronizado)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.ActorID, a.EmployerID, string(a.Kind), a.Timestamp.UTC(), a.Location, a.Hash, a.Synced,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: hash de marcación", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert marcación: %w", err)
	}
	return nil
}

// GetByID devuelve la marcación con su trabajador y empleador; (nil, nil) si no existe.
func (r *AttendanceRepo) GetByID(ctx context.Context, id string) (*entity.AttendanceDetail, error) {
	return r.getOne(ctx, detailSelect+` WHERE m.id = $1`, id)
}

// GetByHash busca la marcación por su hash SHA-256 en hexadecimal.
func (r *AttendanceRepo) GetByHash(ctx context.Context, hash string) (*entity.AttendanceDetail, error) {
	return r.getOne(ctx, detailSelect+` WHERE m.hash = $1`, hash)
}

func (r *AttendanceRepo) getOne(ctx context.Context, query string, arg any) (*entity.AttendanceDetail, error) {
	d, err := scanDetail(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get marcación: %w", err)
	}
	return d, nil
}

func (r *AttendanceRepo) LastByActor(ctx context.Context, actorID string) (*entity.Attendance, error) {
	var a entity.Attendance
	var kind string
	err := r.db.QueryRow(ctx, `
		SELECT id, usuario_id, empleador_id, tipo_marcacion, timestamp, ubicacion, hash, sincronizado
		FROM marcaciones WHERE usuario_id = $1
		ORDER BY timestamp DESC LIMIT 1`, actorID,
	).Scan(&a.ID, &a.ActorID, &a.EmployerID, &kind, &a.Timestamp, &a.Location, &a.Hash, &a.Synced)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("última marcación: %w", err)
	}
	a.Kind = entity.EventKind(kind)
	a.Timestamp = a.Timestamp.UTC()
	return &a, nil
}

func (r *AttendanceRepo) List(ctx context.Context, f repository.AttendanceFilter) ([]*entity.AttendanceDetail, error) {
	where, args := buildFilter(f)
	rows, err := r.db.Query(ctx, detailSelect+where+` ORDER BY m.timestamp DESC`, args...)
	if err != nil {
		return nil, fmt.Errorf("list marcaciones: %w", err)
	}
	defer rows.Close()

	var list []*entity.AttendanceDetail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan marcación: %w", err)
		}
		list = append(list, d)
	}
	return list, rows.Err()
}

func (r *AttendanceRepo) Count(ctx context.Context, f repository.AttendanceFilter) (int, error) {
	return r.count(ctx, "COUNT(*)", f)
}

func (r *AttendanceRepo) CountDistinctActors(ctx context.Context, f repository.AttendanceFilter) (int, error) {
	return r.count(ctx, "COUNT(DISTINCT m.usuario_id)", f)
}

func (r *AttendanceRepo) count(ctx context.Context, expr string, f repository.AttendanceFilter) (int, error) {
	where, args := buildFilter(f)
	query := `SELECT ` + expr + ` FROM marcaciones m JOIN usuarios u ON u.id = m.usuario_id` + where
	var n int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count marcaciones: %w", err)
	}
	return n, nil
}

// buildFilter arma el WHERE con placeholders numerados; los campos vacíos no filtran.
func buildFilter(f repository.AttendanceFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if f.ActorID != "" {
		add("m.usuario_id = $%d", f.ActorID)
	}
	if f.EmployerID != "" {
		add("m.empleador_id = $%d", f.EmployerID)
	}
	if f.ActorRUT != "" {
		add("u.rut = $%d", f.ActorRUT)
	}
	if f.Kind != "" {
		add("m.tipo_marcacion = $%d", string(f.Kind))
	}
	if f.From != nil {
		add("m.timestamp >= $%d", f.From.UTC())
	}
	if f.To != nil {
		add("m.timestamp <= $%d", f.To.UTC())
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanDetail(row pgx.Row) (*entity.AttendanceDetail, error) {
	var (
		d    entity.AttendanceDetail
		u    entity.Actor
		e    entity.Employer
		kind string
		ts   time.Time
	)
	err := row.Scan(
		&d.ID, &d.ActorID, &d.EmployerID, &kind, &ts, &d.Location, &d.Hash, &d.Synced,
		&u.ID, &u.RUT, &u.Nombres, &u.ApellidoPaterno, &u.ApellidoMaterno, &u.Email, &u.Telefono,
		&u.PasswordHash, &u.Role, &u.EmployerID, &u.RegimenEspecial, &u.Active, &u.CreatedAt, &u.UpdatedAt,
		&e.ID, &e.RUT, &e.RazonSocial, &e.Active, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	d.Kind = entity.EventKind(kind)
	d.Timestamp = ts.UTC()
	d.Actor = &u
	d.Employer = &e
	return &d, nil
}
