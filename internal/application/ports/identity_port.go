package ports

import "context"

// Identity usuario autenticado según el proveedor de auth.
type Identity struct {
	UserID string
	Email  string
}

// Session tokens emitidos por el proveedor tras un login.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	User         Identity
}

// IdentityProvider puerto de salida hacia el proveedor de autenticación (Supabase Auth).
// Errores de credenciales o token inválido se devuelven envolviendo domain.ErrUnauthorized.
type IdentityProvider interface {
	GetUser(ctx context.Context, accessToken string) (*Identity, error)
	SignInWithPassword(ctx context.Context, email, password string) (*Session, error)
}

// Principal usuario autenticado con su rol CRM y, si aplica, su registro de comercial.
type Principal struct {
	UserID      string
	Email       string
	ComercialID string
	Role        string
	Nombre      string
}

// IsAdmin informa si el principal tiene rol ADMIN.
func (p Principal) IsAdmin() bool { return p.Role == "ADMIN" }

// ActorID identificador para el historial: comercial si existe, si no el usuario.
func (p Principal) ActorID() string {
	if p.ComercialID != "" {
		return p.ComercialID
	}
	return p.UserID
}

// CanAccess informa si el principal puede operar sobre un recurso del comercial ownerID.
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin() || (p.ComercialID != "" && p.ComercialID == ownerID)
}
