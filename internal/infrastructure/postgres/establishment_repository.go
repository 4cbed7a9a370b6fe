package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

var _ repository.EstablishmentRepository = (*EstablishmentRepo)(nil)

// EstablishmentRepo implementación de EstablishmentRepository.
type EstablishmentRepo struct {
	db Querier
}

// NewEstablishmentRepository construye el adaptador de persistencia para establecimientos.
func NewEstablishmentRepository(db Querier) *EstablishmentRepo {
	return &EstablishmentRepo{db: db}
}

func (r *EstablishmentRepo) Create(ctx context.Context, e *entity.Establishment) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO establecimientos (id, empleador_id, nombre, direccion, comuna, region, activo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		e.ID, e.EmployerID, e.Nombre, e.Direccion, e.Comuna, e.Region, e.Active, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert establecimiento: %w", err)
	}
	return nil
}

func (r *EstablishmentRepo) ListActiveByEmployer(ctx context.Context, employerID string) ([]*entity.Establishment, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, empleador_id, nombre, direccion, comuna, region, activo, created_at
		FROM establecimientos
		WHERE empleador_id = $1 AND activo
		ORDER BY nombre`, employerID)
	if err != nil {
		return nil, fmt.Errorf("list establecimientos: %w", err)
	}
	defer rows.Close()

	var list []*entity.Establishment
	for rows.Next() {
		var e entity.Establishment
		if err := rows.Scan(&e.ID, &e.EmployerID, &e.Nombre, &e.Direccion, &e.Comuna, &e.Region, &e.Active, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan establecimiento: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
