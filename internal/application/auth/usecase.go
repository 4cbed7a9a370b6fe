// Package auth implementa login, autorregistro de trabajadores y cambio de contraseña.
package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/marcaciones-api/internal/application/access"
	"github.com/jhoicas/marcaciones-api/internal/application/dto"
	"github.com/jhoicas/marcaciones-api/internal/domain"
	"github.com/jhoicas/marcaciones-api/internal/domain/entity"
	"github.com/jhoicas/marcaciones-api/internal/domain/repository"
	"github.com/jhoicas/marcaciones-api/pkg/rut"
)

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	actors       repository.ActorRepository
	employers    repository.EmployerRepository
	control      *access.Control
	storeTimeout time.Duration
	now          func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth. storeTimeout acota las llamadas a la base de datos.
func NewAuthUseCase(actors repository.ActorRepository, employers repository.EmployerRepository, control *access.Control, storeTimeout time.Duration) *AuthUseCase {
	return &AuthUseCase{actors: actors, employers: employers, control: control, storeTimeout: storeTimeout, now: time.Now}
}

// Login verifica RUT y contraseña y emite un JWT de 24 horas.
// RUT desconocido, usuario inactivo y contraseña incorrecta devuelven el mismo domain.ErrUnauthorized.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if in.Rut == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: rut y password son requeridos", domain.ErrInvalidInput)
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	actor, err := uc.actors.GetByRUT(sctx, rut.Normalize(in.Rut))
	if err != nil {
		return nil, domain.WrapStore("buscar usuario", err)
	}
	if actor == nil || !actor.Active {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	claims := access.Claims{ActorID: actor.ID, RUT: actor.RUT, Role: actor.Role}
	if actor.EmployerID != nil {
		claims.EmployerID = *actor.EmployerID
	}
	token, err := uc.control.Issue(claims)
	if err != nil {
		return nil, fmt.Errorf("auth: emitir token: %w", err)
	}

	profile, err := uc.profile(sctx, actor)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Usuario: *profile}, nil
}

// Register autorregistro público de un trabajador en un empleador existente.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (*dto.ProfileResponse, error) {
	if _, err := uuid.Parse(in.EmpleadorID); err != nil {
		return nil, fmt.Errorf("%w: empleador_id inválido", domain.ErrInvalidInput)
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	emp, err := uc.employers.GetByID(sctx, in.EmpleadorID)
	if err != nil {
		return nil, domain.WrapStore("obtener empleador", err)
	}
	if emp == nil {
		return nil, fmt.Errorf("%w: empleador no existe", domain.ErrNotFound)
	}
	actor, err := CreateWorker(sctx, uc.actors, dto.CreateWorkerRequest{
		Rut:             in.Rut,
		Nombres:         in.Nombres,
		ApellidoPaterno: in.ApellidoPaterno,
		ApellidoMaterno: in.ApellidoMaterno,
		Email:           in.Email,
		Password:        in.Password,
		Telefono:        in.Telefono,
	}, emp.ID, uc.now())
	if err != nil {
		return nil, err
	}
	return toProfile(actor, emp), nil
}

// Profile perfil del usuario autenticado.
func (uc *AuthUseCase) Profile(ctx context.Context, claims access.Claims) (*dto.ProfileResponse, error) {
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	actor, err := uc.actors.GetByID(sctx, claims.ActorID)
	if err != nil {
		return nil, domain.WrapStore("obtener usuario", err)
	}
	if actor == nil {
		return nil, domain.ErrNotFound
	}
	return uc.profile(sctx, actor)
}

// ChangePassword verifica la contraseña actual y guarda la nueva hasheada con bcrypt.
func (uc *AuthUseCase) ChangePassword(ctx context.Context, claims access.Claims, in dto.ChangePasswordRequest) error {
	if len(in.PasswordNueva) < MinPasswordLength {
		return fmt.Errorf("%w: la nueva contraseña debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	sctx, cancel := repository.WithTimeout(ctx, uc.storeTimeout)
	defer cancel()
	actor, err := uc.actors.GetByID(sctx, claims.ActorID)
	if err != nil {
		return domain.WrapStore("obtener usuario", err)
	}
	if actor == nil {
		return domain.ErrNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(in.PasswordActual)); err != nil {
		return fmt.Errorf("%w: contraseña actual incorrecta", domain.ErrUnauthorized)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.PasswordNueva), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	actor.PasswordHash = string(hash)
	actor.UpdatedAt = uc.now()
	return domain.WrapStore("actualizar contraseña", uc.actors.Update(sctx, actor))
}

func (uc *AuthUseCase) profile(ctx context.Context, actor *entity.Actor) (*dto.ProfileResponse, error) {
	var emp *entity.Employer
	if actor.EmployerID != nil {
		var err error
		emp, err = uc.employers.GetByID(ctx, *actor.EmployerID)
		if err != nil {
			return nil, domain.WrapStore("obtener empleador", err)
		}
	}
	return toProfile(actor, emp), nil
}

func toProfile(a *entity.Actor, emp *entity.Employer) *dto.ProfileResponse {
	p := &dto.ProfileResponse{
		ID:              a.ID,
		Rut:             a.RUT,
		Nombres:         a.Nombres,
		ApellidoPaterno: a.ApellidoPaterno,
		ApellidoMaterno: a.ApellidoMaterno,
		Email:           a.Email,
		Telefono:        a.Telefono,
		Rol:             a.Role,
		RegimenEspecial: a.RegimenEspecial,
	}
	if emp != nil {
		p.Empleador = &dto.EmployerResponse{ID: emp.ID, Rut: emp.RUT, RazonSocial: emp.RazonSocial, Activo: emp.Active}
	}
	return p
}
