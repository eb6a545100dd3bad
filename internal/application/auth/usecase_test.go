package auth_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wingman-crm/internal/application/auth"
	"github.com/jhoicas/wingman-crm/internal/application/dto"
	"github.com/jhoicas/wingman-crm/internal/application/ports"
	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// fakeIdentity proveedor de auth con usuarios fijos.
type fakeIdentity struct {
	tokens   map[string]ports.Identity
	password string
	err      error
}

func (f *fakeIdentity) GetUser(_ context.Context, token string) (*ports.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	id, ok := f.tokens[token]
	if !ok {
		return nil, fmt.Errorf("token rechazado: %w", domain.ErrUnauthorized)
	}
	return &id, nil
}

func (f *fakeIdentity) SignInWithPassword(_ context.Context, email, password string) (*ports.Session, error) {
	if password != f.password {
		return nil, fmt.Errorf("invalid_grant: %w", domain.ErrUnauthorized)
	}
	return &ports.Session{
		AccessToken:  "access-" + email,
		RefreshToken: "refresh-" + email,
		ExpiresIn:    3600,
		User:         ports.Identity{UserID: "user-" + email, Email: email},
	}, nil
}

func newAuthUC(db *memory.DB, idp ports.IdentityProvider) *auth.AuthUseCase {
	s := db.Store()
	return auth.NewAuthUseCase(idp, s.Roles, s.Comerciales, db)
}

func seedAdmin(t *testing.T, db *memory.DB, userID string) {
	t.Helper()
	require.NoError(t, db.Store().Roles.Create(context.Background(), &entity.CRMRole{
		ID: "role-" + userID, UserID: userID, Role: entity.RoleAdmin, Activo: true, CreatedAt: time.Now(),
	}))
}

// ──────────────────────────────────────────────────────────────────────────────
// Login y Authenticate
// ──────────────────────────────────────────────────────────────────────────────

func TestLogin_DevuelveTokensDelProveedor(t *testing.T) {
	uc := newAuthUC(memory.New(), &fakeIdentity{password: "secreta123"})

	out, err := uc.Login(context.Background(), dto.LoginRequest{Email: " carlos@wingman.co ", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "access-carlos@wingman.co", out.Token)
	assert.Equal(t, "refresh-carlos@wingman.co", out.RefreshToken)
	assert.Equal(t, 3600, out.ExpiresIn)
	assert.Equal(t, "carlos@wingman.co", out.User.Email)

	_, err = uc.Login(context.Background(), dto.LoginRequest{Email: "carlos@wingman.co", Password: "otra"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuthenticate_TokenVacio(t *testing.T) {
	uc := newAuthUC(memory.New(), &fakeIdentity{})
	_, err := uc.Authenticate(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// ──────────────────────────────────────────────────────────────────────────────
// Resolve
// ──────────────────────────────────────────────────────────────────────────────

func TestResolve_PorRolActivo(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")

	p, err := newAuthUC(db, &fakeIdentity{}).Resolve(context.Background(), ports.Identity{UserID: rep.UserID, Email: rep.Email})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleComercial, p.Role)
	assert.Equal(t, rep.ID, p.ComercialID)
	assert.Equal(t, "Carlos", p.Nombre)
}

func TestResolve_FallbackPorEmail(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")

	// Usuario sin fila en crm_roles pero con comercial registrado con el mismo email.
	p, err := newAuthUC(db, &fakeIdentity{}).Resolve(context.Background(), ports.Identity{UserID: "otro-user", Email: "CARLOS@wingman.co"})
	require.NoError(t, err)
	assert.Equal(t, rep.ID, p.ComercialID)
	assert.Equal(t, entity.RoleComercial, p.Role)
}

func TestResolve_SinRolNiComercial(t *testing.T) {
	db := memory.New()
	_, err := newAuthUC(db, &fakeIdentity{}).Resolve(context.Background(), ports.Identity{UserID: "u1", Email: "nadie@wingman.co"})
	assert.ErrorIs(t, err, domain.ErrComercialNotFound)
}

func TestResolve_AdminTienePrioridad(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	seedAdmin(t, db, rep.UserID)

	p, err := newAuthUC(db, &fakeIdentity{}).Resolve(context.Background(), ports.Identity{UserID: rep.UserID})
	require.NoError(t, err)
	assert.True(t, p.IsAdmin())
}

// ──────────────────────────────────────────────────────────────────────────────
// VerifyAccess
// ──────────────────────────────────────────────────────────────────────────────

func TestVerifyAccess(t *testing.T) {
	db := memory.New()
	rep := db.SeedComercial("Carlos", "carlos@wingman.co")
	seedAdmin(t, db, "admin-user")
	uc := newAuthUC(db, &fakeIdentity{})
	ctx := context.Background()

	out, err := uc.VerifyAccess(ctx, ports.Identity{UserID: rep.UserID}, "comercial")
	require.NoError(t, err)
	assert.True(t, out.HasAccess)
	assert.Equal(t, "comercial", out.UserRole)
	assert.Equal(t, "Carlos", out.UserName)

	out, err = uc.VerifyAccess(ctx, ports.Identity{UserID: rep.UserID}, "admin")
	require.NoError(t, err)
	assert.False(t, out.HasAccess, "un comercial no accede a rutas de admin")
	assert.Equal(t, "admin", out.RequiredRole)

	out, err = uc.VerifyAccess(ctx, ports.Identity{UserID: "admin-user"}, "")
	require.NoError(t, err)
	assert.True(t, out.HasAccess, "el admin accede a rutas de comercial")
	assert.Equal(t, "comercial", out.RequiredRole)

	out, err = uc.VerifyAccess(ctx, ports.Identity{UserID: "desconocido"}, "comercial")
	require.NoError(t, err)
	assert.False(t, out.HasAccess)

	_, err = uc.VerifyAccess(ctx, ports.Identity{UserID: rep.UserID}, "gerente")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────────────────────
// Signup
// ──────────────────────────────────────────────────────────────────────────────

func signupRequest(email string) dto.SignupRequest {
	return dto.SignupRequest{
		UserID:   "user-nuevo",
		Nombre:   "Lucía Gómez",
		Email:    email,
		Telefono: "3001234567",
		Ciudad:   "Medellín",
	}
}

func TestSignup_CreaComercialYRol(t *testing.T) {
	db := memory.New()
	uc := newAuthUC(db, &fakeIdentity{})

	out, err := uc.Signup(context.Background(), signupRequest("Lucia@Wingman.co"))
	require.NoError(t, err)
	assert.Equal(t, "lucia@wingman.co", out.Email)
	assert.Equal(t, "+573001234567", out.Telefono)
	assert.True(t, out.Activo)

	p, err := uc.Resolve(context.Background(), ports.Identity{UserID: "user-nuevo"})
	require.NoError(t, err)
	assert.Equal(t, out.ID, p.ComercialID)
}

func TestSignup_EmailDuplicado(t *testing.T) {
	db := memory.New()
	db.SeedComercial("Carlos", "carlos@wingman.co")

	_, err := newAuthUC(db, &fakeIdentity{}).Signup(context.Background(), signupRequest("carlos@wingman.co"))
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

// Un fallo al crear el rol revierte el comercial.
func TestSignup_FalloDelRolRevierteComercial(t *testing.T) {
	db := memory.New()
	db.FailOn("roles.create", errors.New("conexión cerrada"))
	uc := newAuthUC(db, &fakeIdentity{})

	_, err := uc.Signup(context.Background(), signupRequest("lucia@wingman.co"))
	require.Error(t, err)

	db.ClearFailures()
	_, err = uc.Signup(context.Background(), signupRequest("lucia@wingman.co"))
	assert.NoError(t, err, "el primer intento no debe dejar el email tomado")
}

func TestSignup_SinIdentidad(t *testing.T) {
	db := memory.New()
	in := signupRequest("lucia@wingman.co")
	in.UserID = ""

	uc := newAuthUC(db, &fakeIdentity{})

	_, err := uc.Signup(context.Background(), in)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Resolve(context.Background(), ports.Identity{UserID: "user-nuevo", Email: "lucia@wingman.co"})
	assert.ErrorIs(t, err, domain.ErrComercialNotFound, "no debe quedar comercial creado")
}
