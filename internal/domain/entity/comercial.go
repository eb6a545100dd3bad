package entity

import "time"

// Roles CRM (tabla crm_roles).
const (
	RoleAdmin     = "ADMIN"
	RoleComercial = "COMERCIAL"
)

// Comercial vendedor freelance dueño de leads, eventos y comisiones.
type Comercial struct {
	ID                  string
	UserID              string // id en Supabase Auth
	Nombre              string
	Email               string
	Telefono            string
	Ciudad              string
	Activo              bool
	ExperienciaVentas   string
	SectoresExperiencia string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CRMRole asocia una identidad de auth con un rol y, para comerciales, con su registro.
type CRMRole struct {
	ID          string
	UserID      string
	ComercialID string // vacío para admins sin registro comercial
	Role        string
	Activo      bool
	CreatedAt   time.Time
}
