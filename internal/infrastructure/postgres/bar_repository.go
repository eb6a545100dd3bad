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

var _ repository.BarRepository = (*BarRepo)(nil)

const barColumns = `id, name, COALESCE(nit, ''), address, ciudad, capacidad_oficial, contacto_nombre,
	contacto_telefono, contacto_email, description, account_status, motivo_rechazo, created_at, updated_at`

// BarRepo implementación de BarRepository (usable con pool o tx).
type BarRepo struct {
	q Querier
}

// NewBarRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBarRepository(q Querier) *BarRepo {
	return &BarRepo{q: q}
}

// Create persiste un nuevo bar. El índice bars_nit_base_key garantiza un único NIT base.
func (r *BarRepo) Create(ctx context.Context, b *entity.Bar) error {
	query := `
		INSERT INTO bars (id, name, nit, address, ciudad, capacidad_oficial, contacto_nombre, contacto_telefono,
			contacto_email, description, account_status, motivo_rechazo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		b.ID, b.Name, nullIfEmpty(b.NIT), b.Address, b.Ciudad, b.CapacidadOficial, b.ContactoNombre, b.ContactoTelefono,
		b.ContactoEmail, b.Description, b.AccountStatus, b.MotivoRechazo, b.CreatedAt, b.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) && constraintName(err) == "bars_nit_base_key" {
			return fmt.Errorf("nit %s: %w", b.NIT, domain.ErrDuplicateNIT)
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert bar: %w", err)
	}
	return nil
}

// GetByID obtiene un bar por ID.
func (r *BarRepo) GetByID(ctx context.Context, id string) (*entity.Bar, error) {
	b, err := scanBar(r.q.QueryRow(ctx, `SELECT `+barColumns+` FROM bars WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get bar: %w", err)
	}
	return b, nil
}

// FindByNITBase busca por la parte del NIT anterior al guion, sin espacios.
func (r *BarRepo) FindByNITBase(ctx context.Context, base string) (*entity.Bar, error) {
	query := `SELECT ` + barColumns + ` FROM bars
		WHERE nit IS NOT NULL AND btrim(split_part(nit, '-', 1)) = $1
		LIMIT 1`
	b, err := scanBar(r.q.QueryRow(ctx, query, base))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find bar by nit: %w", err)
	}
	return b, nil
}

// ListByStatus lista bares por estado de verificación, más antiguos primero.
func (r *BarRepo) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Bar, error) {
	query := `SELECT ` + barColumns + ` FROM bars
		WHERE ($1 = '' OR account_status = $1)
		ORDER BY created_at LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list bars: %w", err)
	}
	defer rows.Close()
	var list []*entity.Bar
	for rows.Next() {
		b, err := scanBar(rows)
		if err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

// UpdateStatus cambia el estado de verificación.
func (r *BarRepo) UpdateStatus(ctx context.Context, id, status, motivo string) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE bars SET account_status = $2, motivo_rechazo = $3, updated_at = now() WHERE id = $1`,
		id, status, motivo)
	if err != nil {
		return fmt.Errorf("update bar status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanBar(row pgx.Row) (*entity.Bar, error) {
	var b entity.Bar
	err := row.Scan(&b.ID, &b.Name, &b.NIT, &b.Address, &b.Ciudad, &b.CapacidadOficial, &b.ContactoNombre,
		&b.ContactoTelefono, &b.ContactoEmail, &b.Description, &b.AccountStatus, &b.MotivoRechazo, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}
