package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
	"github.com/jhoicas/wingman-crm/pkg/phone"
)

// Valores aceptados en ?role= de verify-access.
const (
	AccessAdmin     = "admin"
	AccessComercial = "comercial"
)

// AuthUseCase casos de uso de autenticación: login, resolución de rol, registro de comerciales.
type AuthUseCase struct {
	identity    ports.IdentityProvider
	roles       repository.RoleRepository
	comerciales repository.ComercialRepository
	tx          ports.TxRunner
	now         func() time.Time
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(identity ports.IdentityProvider, roles repository.RoleRepository, comerciales repository.ComercialRepository, tx ports.TxRunner) *AuthUseCase {
	return &AuthUseCase{identity: identity, roles: roles, comerciales: comerciales, tx: tx, now: time.Now}
}

// Login delega la verificación de credenciales al proveedor de auth.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	sess, err := uc.identity.SignInWithPassword(ctx, strings.TrimSpace(in.Email), in.Password)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		ExpiresIn:    sess.ExpiresIn,
		User:         dto.AuthUser{ID: sess.User.UserID, Email: sess.User.Email},
	}, nil
}

// Authenticate valida el access token y devuelve la identidad.
func (uc *AuthUseCase) Authenticate(ctx context.Context, token string) (*ports.Identity, error) {
	if token == "" {
		return nil, domain.ErrUnauthorized
	}
	return uc.identity.GetUser(ctx, token)
}

// Resolve obtiene el rol CRM del usuario. Sin rol activo se intenta por email contra comerciales;
// si tampoco existe devuelve domain.ErrComercialNotFound.
func (uc *AuthUseCase) Resolve(ctx context.Context, id ports.Identity) (*ports.Principal, error) {
	p := &ports.Principal{UserID: id.UserID, Email: id.Email}

	role, err := uc.roles.GetActiveByUserID(ctx, id.UserID)
	if err != nil {
		return nil, fmt.Errorf("resolver rol: %w", err)
	}
	if role != nil {
		p.Role = role.Role
		p.ComercialID = role.ComercialID
		if role.ComercialID != "" {
			c, err := uc.comerciales.GetByID(ctx, role.ComercialID)
			if err != nil {
				return nil, err
			}
			if c != nil {
				p.Nombre = c.Nombre
			}
		}
		if p.Role == entity.RoleComercial && p.ComercialID == "" {
			return nil, domain.ErrComercialNotFound
		}
		return p, nil
	}

	if id.Email == "" {
		return nil, domain.ErrComercialNotFound
	}
	c, err := uc.comerciales.GetByEmail(ctx, id.Email)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.Activo {
		return nil, domain.ErrComercialNotFound
	}
	p.Role = entity.RoleComercial
	p.ComercialID = c.ID
	p.Nombre = c.Nombre
	return p, nil
}

// VerifyAccess informa si el usuario tiene el rol requerido. Un admin también accede a rutas de comercial.
func (uc *AuthUseCase) VerifyAccess(ctx context.Context, id ports.Identity, required string) (*dto.VerifyAccessResponse, error) {
	required = strings.ToLower(strings.TrimSpace(required))
	if required == "" {
		required = AccessComercial
	}
	if required != AccessAdmin && required != AccessComercial {
		return nil, fmt.Errorf("%w: role debe ser admin o comercial", domain.ErrInvalidInput)
	}
	out := &dto.VerifyAccessResponse{RequiredRole: required}
	p, err := uc.Resolve(ctx, id)
	if errors.Is(err, domain.ErrComercialNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	out.UserRole = strings.ToLower(p.Role)
	out.UserName = p.Nombre
	switch required {
	case AccessAdmin:
		out.HasAccess = p.IsAdmin()
	default:
		out.HasAccess = p.IsAdmin() || p.ComercialID != ""
	}
	return out, nil
}

// Signup crea el comercial y su rol en una sola transacción.
func (uc *AuthUseCase) Signup(ctx context.Context, in dto.SignupRequest) (*dto.ComercialResponse, error) {
	if in.UserID == "" {
		return nil, domain.ErrUnauthorized
	}
	now := uc.now()
	c := &entity.Comercial{
		ID:                  uuid.New().String(),
		UserID:              in.UserID,
		Nombre:              strings.TrimSpace(in.Nombre),
		Email:               strings.ToLower(strings.TrimSpace(in.Email)),
		Telefono:            phone.NormalizeE164(in.Telefono),
		Ciudad:              strings.TrimSpace(in.Ciudad),
		Activo:              true,
		ExperienciaVentas:   in.ExperienciaVentas,
		SectoresExperiencia: in.SectoresExperiencia,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	err := uc.tx.Run(ctx, func(s repository.Store) error {
		if err := s.Comerciales.Create(ctx, c); err != nil {
			return err
		}
		return s.Roles.Create(ctx, &entity.CRMRole{
			ID:          uuid.New().String(),
			UserID:      in.UserID,
			ComercialID: c.ID,
			Role:        entity.RoleComercial,
			Activo:      true,
			CreatedAt:   now,
		})
	})
	if err != nil {
		return nil, err
	}
	out := dto.NewComercialResponse(c)
	return &out, nil
}
