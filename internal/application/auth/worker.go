package auth

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
	"github.com/jhoicas/marcaciones-api/pkg/rut"
)

// MinPasswordLength largo mínimo de contraseña.
const MinPasswordLength = 6

// CreateWorker valida y persiste un trabajador nuevo afiliado a employerID.
// Lo usan el autorregistro y el alta por el empleador.
func CreateWorker(
	ctx context.Context,
	actors repository.ActorRepository,
	in dto.CreateWorkerRequest,
	employerID string,
	now time.Time,
) (*entity.Actor, error) {
	// ── 1. Validar entrada ────────────────────────────────────────────────────
	if err := rut.Validate(in.Rut); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	normalized := rut.Normalize(in.Rut)
	names := []string{strings.TrimSpace(in.Nombres), strings.TrimSpace(in.ApellidoPaterno), strings.TrimSpace(in.ApellidoMaterno)}
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("%w: nombres y apellidos son requeridos", domain.ErrInvalidInput)
		}
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if len(in.Password) < MinPasswordLength {
		return nil, fmt.Errorf("%w: la contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}

	// ── 2. Unicidad de RUT y email ────────────────────────────────────────────
	if existing, err := actors.GetByRUT(ctx, normalized); err != nil {
		return nil, domain.WrapStore("buscar rut", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: el RUT ya está registrado", domain.ErrDuplicate)
	}
	if existing, err := actors.GetByEmail(ctx, email); err != nil {
		return nil, domain.WrapStore("buscar email", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: el email ya está registrado", domain.ErrDuplicate)
	}

	// ── 3. Persistir ──────────────────────────────────────────────────────────
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	empID := employerID
	actor := &entity.Actor{
		ID:              uuid.New().String(),
		RUT:             normalized,
		Nombres:         names[0],
		ApellidoPaterno: names[1],
		ApellidoMaterno: names[2],
		Email:           email,
		Telefono:        strings.TrimSpace(in.Telefono),
		PasswordHash:    string(hash),
		Role:            entity.RoleTrabajador,
		EmployerID:      &empID,
		RegimenEspecial: in.RegimenEspecial,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := actors.Create(ctx, actor); err != nil {
		return nil, domain.WrapStore("crear usuario", err)
	}
	return actor, nil
}

// NormalizeEmail valida la dirección y la deja en minúsculas.
func NormalizeEmail(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return "", fmt.Errorf("%w: email inválido", domain.ErrInvalidInput)
	}
	return s, nil
}
