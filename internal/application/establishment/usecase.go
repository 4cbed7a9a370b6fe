// Package establishment gestiona las sucursales o faenas de un empleador.
package establishment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
)

// EstablishmentUseCase casos de uso de establecimientos.
type EstablishmentUseCase struct {
	repo         repository.EstablishmentRepository
	storeTimeout time.Duration
}

// NewEstablishmentUseCase construye el caso de uso.
func NewEstablishmentUseCase(repo repository.EstablishmentRepository, storeTimeout time.Duration) *EstablishmentUseCase {
	return &EstablishmentUseCase{repo: repo, storeTimeout: storeTimeout}
}

func authorize(c access.Claims) error {
	if err := access.Authorize(c, access.LevelEmployer); err != nil {
		return err
	}
	if !c.HasEmployer() {
		return fmt.Errorf("%w: usuario sin empleador asociado", domain.ErrForbidden)
	}
	return nil
}

// List establecimientos activos del empleador, ordenados por nombre.
func (uc *EstablishmentUseCase) List(ctx context.Context, c access.Claims) ([]dto.EstablishmentResponse, error) {
	if err := authorize(c); err != nil {
		return nil, err
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	list, err := uc.repo.ListActiveByEmployer(sctx, c.EmployerID)
	if err != nil {
		return nil, domain.WrapStore("listar establecimientos", err)
	}
	out := make([]dto.EstablishmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toResponse(e))
	}
	return out, nil
}

// Create alta de establecimiento; nombre es obligatorio.
func (uc *EstablishmentUseCase) Create(ctx context.Context, c access.Claims, in dto.CreateEstablishmentRequest) (*dto.EstablishmentResponse, error) {
	if err := authorize(c); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Nombre)
	if name == "" {
		return nil, fmt.Errorf("%w: nombre es requerido", domain.ErrInvalidInput)
	}
	e := &entity.Establishment{
		ID:         uuid.New().String(),
		EmployerID: c.EmployerID,
		Nombre:     name,
		Direccion:  strings.TrimSpace(in.Direccion),
		Comuna:     strings.TrimSpace(in.Comuna),
		Region:     strings.TrimSpace(in.Region),
		Active:     true,
		CreatedAt:  time.Now(),
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	if err := uc.repo.Create(sctx, e); err != nil {
		return nil, domain.WrapStore("crear establecimiento", err)
	}
	resp := toResponse(e)
	return &resp, nil
}

func toResponse(e *entity.Establishment) dto.EstablishmentResponse {
	return dto.EstablishmentResponse{
		ID:          e.ID,
		EmpleadorID: e.EmployerID,
		Nombre:      e.Nombre,
		Direccion:   e.Direccion,
		Comuna:      e.Comuna,
		Region:      e.Region,
		Activo:      e.Active,
		CreatedAt:   e.CreatedAt,
	}
}
