package dto

// LoginRequest entrada de POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthUser identidad devuelta al frontend.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// LoginResponse tokens del proveedor de auth.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

// SignupRequest registro de un comercial tras crear su usuario en Supabase Auth.
// UserID lo fija el handler desde la identidad autenticada, nunca desde el cuerpo.
type SignupRequest struct {
	UserID              string `json:"-"`
	Nombre              string `json:"nombre" validate:"required,min=2,max=200"`
	Email               string `json:"email" validate:"required,email"`
	Telefono            string `json:"telefono" validate:"required,max=30"`
	Ciudad              string `json:"ciudad" validate:"required,max=100"`
	ExperienciaVentas   string `json:"experiencia_ventas" validate:"omitempty,max=500"`
	SectoresExperiencia string `json:"sectores_experiencia" validate:"omitempty,max=500"`
}

// ComercialResponse salida de un comercial.
type ComercialResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id"`
	Nombre   string `json:"nombre"`
	Email    string `json:"email"`
	Telefono string `json:"telefono"`
	Ciudad   string `json:"ciudad"`
	Activo   bool   `json:"activo"`
}

// VerifyAccessResponse salida de GET /api/auth/verify-access.
type VerifyAccessResponse struct {
	HasAccess    bool   `json:"has_access"`
	UserRole     string `json:"user_role,omitempty"`
	UserName     string `json:"user_name,omitempty"`
	RequiredRole string `json:"required_role"`
}
