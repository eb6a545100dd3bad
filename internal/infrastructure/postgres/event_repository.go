package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wingman-crm/internal/domain"
	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ repository.EventRepository = (*EventRepo)(nil)

const eventColumns = `id, bar_id, comercial_id, COALESCE(lead_id::text, ''), titulo, fecha, capacidad_meta,
	ubicacion, descripcion, estado, created_at, updated_at`

// EventRepo implementación de EventRepository (usable con pool o tx).
type EventRepo struct {
	q Querier
}

// NewEventRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEventRepository(q Querier) *EventRepo {
	return &EventRepo{q: q}
}

// Create persiste un nuevo evento.
func (r *EventRepo) Create(ctx context.Context, e *entity.Event) error {
	query := `
		INSERT INTO evento (id, bar_id, comercial_id, lead_id, titulo, fecha, capacidad_meta, ubicacion,
			descripcion, estado, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.BarID, e.ComercialID, nullIfEmpty(e.LeadID), e.Titulo, e.Fecha, e.CapacidadMeta, e.Ubicacion,
		e.Descripcion, e.Estado, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert evento: %w", err)
	}
	return nil
}

// GetByID obtiene un evento por ID.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*entity.Event, error) {
	e, err := scanEvent(r.q.QueryRow(ctx, `SELECT `+eventColumns+` FROM evento WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get evento: %w", err)
	}
	return e, nil
}

// UpdateStatus cambia el estado del evento.
func (r *EventRepo) UpdateStatus(ctx context.Context, id, estado string) error {
	tag, err := r.q.Exec(ctx, `UPDATE evento SET estado = $2, updated_at = now() WHERE id = $1`, id, estado)
	if err != nil {
		return fmt.Errorf("update evento: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByComercial con from nulo lista todos (más recientes primero); con from lista los
// programados o en curso desde esa fecha en orden ascendente.
func (r *EventRepo) ListByComercial(ctx context.Context, comercialID string, from *time.Time, limit int) ([]*entity.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM evento WHERE comercial_id = $1 ORDER BY fecha DESC LIMIT NULLIF($2::int, 0)`
	args := []any{comercialID, limit}
	if from != nil {
		query = `SELECT ` + eventColumns + ` FROM evento
			WHERE comercial_id = $1 AND fecha >= $3 AND estado IN ('PROGRAMADO', 'EN_CURSO')
			ORDER BY fecha LIMIT NULLIF($2::int, 0)`
		args = append(args, *from)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list eventos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan evento: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

func scanEvent(row pgx.Row) (*entity.Event, error) {
	var e entity.Event
	err := row.Scan(&e.ID, &e.BarID, &e.ComercialID, &e.LeadID, &e.Titulo, &e.Fecha, &e.CapacidadMeta,
		&e.Ubicacion, &e.Descripcion, &e.Estado, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
