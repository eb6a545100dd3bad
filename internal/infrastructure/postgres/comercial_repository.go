package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var (
	_ repository.ComercialRepository = (*ComercialRepo)(nil)
	_ repository.RoleRepository      = (*RoleRepo)(nil)
)

const comercialColumns = `id, user_id, nombre, email, telefono, ciudad, activo, experiencia_ventas,
	sectores_experiencia, created_at, updated_at`

// ComercialRepo implementación de ComercialRepository (usable con pool o tx).
type ComercialRepo struct {
	q Querier
}

// NewComercialRepository construye el adaptador.
func NewComercialRepository(q Querier) *ComercialRepo {
	return &ComercialRepo{q: q}
}

// Create persiste el comercial; email repetido devuelve domain.ErrEmailAlreadyExists.
func (r *ComercialRepo) Create(ctx context.Context, c *entity.Comercial) error {
	query := `
		INSERT INTO comercial (id, user_id, nombre, email, telefono, ciudad, activo, experiencia_ventas,
			sectores_experiencia, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.UserID, c.Nombre, c.Email, c.Telefono, c.Ciudad, c.Activo, c.ExperienciaVentas,
		c.SectoresExperiencia, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEmailAlreadyExists
		}
		return fmt.Errorf("insert comercial: %w", err)
	}
	return nil
}

// GetByID obtiene un comercial por ID.
func (r *ComercialRepo) GetByID(ctx context.Context, id string) (*entity.Comercial, error) {
	return r.getOne(ctx, `SELECT `+comercialColumns+` FROM comercial WHERE id = $1`, id)
}

// GetByEmail busca sin distinguir mayúsculas.
func (r *ComercialRepo) GetByEmail(ctx context.Context, email string) (*entity.Comercial, error) {
	return r.getOne(ctx, `SELECT `+comercialColumns+` FROM comercial WHERE lower(email) = lower($1)`, email)
}

func (r *ComercialRepo) getOne(ctx context.Context, query, arg string) (*entity.Comercial, error) {
	var c entity.Comercial
	err := r.q.QueryRow(ctx, query, arg).Scan(&c.ID, &c.UserID, &c.Nombre, &c.Email, &c.Telefono, &c.Ciudad,
		&c.Activo, &c.ExperienciaVentas, &c.SectoresExperiencia, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get comercial: %w", err)
	}
	return &c, nil
}

// RoleRepo implementación de RoleRepository.
type RoleRepo struct {
	q Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(q Querier) *RoleRepo {
	return &RoleRepo{q: q}
}

// Create persiste un rol CRM.
func (r *RoleRepo) Create(ctx context.Context, role *entity.CRMRole) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO crm_roles (id, user_id, comercial_id, role, activo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		role.ID, role.UserID, nullIfEmpty(role.ComercialID), role.Role, role.Activo, role.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert crm_role: %w", err)
	}
	return nil
}

// GetActiveByUserID devuelve el rol activo más reciente del usuario; ADMIN tiene prioridad.
func (r *RoleRepo) GetActiveByUserID(ctx context.Context, userID string) (*entity.CRMRole, error) {
	query := `
		SELECT id, user_id, COALESCE(comercial_id::text, ''), role, activo, created_at
		FROM crm_roles
		WHERE user_id = $1 AND activo
		ORDER BY (role = 'ADMIN') DESC, created_at DESC
		LIMIT 1`
	var role entity.CRMRole
	err := r.q.QueryRow(ctx, query, userID).Scan(&role.ID, &role.UserID, &role.ComercialID, &role.Role, &role.Activo, &role.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get crm_role: %w", err)
	}
	return &role, nil
}
