package repository

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// ComercialRepository puerto de persistencia para comerciales.
type ComercialRepository interface {
	// Create devuelve domain.ErrEmailAlreadyExists si el email ya está registrado.
	Create(ctx context.Context, c *entity.Comercial) error
	GetByID(ctx context.Context, id string) (*entity.Comercial, error)
	GetByEmail(ctx context.Context, email string) (*entity.Comercial, error)
}

// RoleRepository puerto de persistencia para crm_roles.
type RoleRepository interface {
	Create(ctx context.Context, r *entity.CRMRole) error
	GetActiveByUserID(ctx context.Context, userID string) (*entity.CRMRole, error)
}
