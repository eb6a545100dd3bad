package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ repository.LeadRepository = (*LeadRepo)(nil)

const leadDetailSelect = `
	SELECT l.id, l.bar_id, l.owner_id, l.source, l.nombre_contacto, l.email_contacto, l.telefono_contacto,
		l.ciudad, l.nota, l.score, l.etapa, l.created_at, l.updated_at,
		b.name, b.address, c.nombre, c.email
	FROM lead l
	JOIN bars b ON b.id = l.bar_id
	JOIN comercial c ON c.id = l.owner_id`

// LeadRepo implementación de LeadRepository (usable con pool o tx).
type LeadRepo struct {
	q Querier
}

// NewLeadRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLeadRepository(q Querier) *LeadRepo {
	return &LeadRepo{q: q}
}

// Create persiste un nuevo lead.
func (r *LeadRepo) Create(ctx context.Context, l *entity.Lead) error {
	query := `
		INSERT INTO lead (id, bar_id, owner_id, source, nombre_contacto, email_contacto, telefono_contacto,
			ciudad, nota, score, etapa, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.BarID, l.OwnerID, l.Source, l.NombreContacto, l.EmailContacto, l.TelefonoContacto,
		l.Ciudad, l.Nota, l.Score, string(l.Etapa), l.CreatedAt, l.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// GetDetail obtiene el lead con bar y comercial.
func (r *LeadRepo) GetDetail(ctx context.Context, id string) (*entity.LeadDetail, error) {
	return r.getOne(ctx, leadDetailSelect+` WHERE l.id = $1`, id)
}

// GetForUpdate igual que GetDetail pero bloquea la fila del lead (FOR UPDATE OF l).
func (r *LeadRepo) GetForUpdate(ctx context.Context, id string) (*entity.LeadDetail, error) {
	return r.getOne(ctx, leadDetailSelect+` WHERE l.id = $1 FOR UPDATE OF l`, id)
}

func (r *LeadRepo) getOne(ctx context.Context, query, id string) (*entity.LeadDetail, error) {
	l, err := scanLeadDetail(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get lead: %w", err)
	}
	return l, nil
}

// UpdateStage cambia etapa y score.
func (r *LeadRepo) UpdateStage(ctx context.Context, id string, etapa pipeline.Stage, score int) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE lead SET etapa = $2, score = $3, updated_at = now() WHERE id = $1`,
		id, string(etapa), score)
	if err != nil {
		return fmt.Errorf("update lead stage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista leads con filtros opcionales, más recientes primero.
func (r *LeadRepo) List(ctx context.Context, f repository.LeadFilter) ([]*entity.LeadDetail, error) {
	var (
		where []string
		args  []any
	)
	if f.OwnerID != "" {
		args = append(args, f.OwnerID)
		where = append(where, fmt.Sprintf("l.owner_id = $%d", len(args)))
	}
	if f.Etapa != "" {
		args = append(args, string(f.Etapa))
		where = append(where, fmt.Sprintf("l.etapa = $%d", len(args)))
	}
	query := leadDetailSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	args = append(args, f.Limit, f.Offset)
	query += fmt.Sprintf(" ORDER BY l.created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()
	var list []*entity.LeadDetail
	for rows.Next() {
		l, err := scanLeadDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// CountByOwner cuenta los leads del comercial; stages vacío = todas las etapas.
func (r *LeadRepo) CountByOwner(ctx context.Context, ownerID string, stages []pipeline.Stage) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT count(*) FROM lead WHERE owner_id = $1 AND ($2::text[] IS NULL OR etapa = ANY($2))`,
		ownerID, stringsOf(stages)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

func scanLeadDetail(row pgx.Row) (*entity.LeadDetail, error) {
	var (
		l     entity.LeadDetail
		etapa string
	)
	err := row.Scan(&l.ID, &l.BarID, &l.OwnerID, &l.Source, &l.NombreContacto, &l.EmailContacto, &l.TelefonoContacto,
		&l.Ciudad, &l.Nota, &l.Score, &etapa, &l.CreatedAt, &l.UpdatedAt,
		&l.BarName, &l.BarAddress, &l.OwnerNombre, &l.OwnerEmail)
	if err != nil {
		return nil, err
	}
	l.Etapa = pipeline.Stage(etapa)
	return &l, nil
}
