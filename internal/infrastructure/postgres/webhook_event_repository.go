package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ repository.WebhookEventRepository = (*WebhookEventRepo)(nil)

// WebhookEventRepo registro de callbacks en webhook_eventos.
type WebhookEventRepo struct {
	q Querier
}

// NewWebhookEventRepository construye el adaptador.
func NewWebhookEventRepository(q Querier) *WebhookEventRepo {
	return &WebhookEventRepo{q: q}
}

// Record inserta el evento o reclama una fila previa sin procesar con la misma clave.
// Una fila ya procesada hace que el upsert no devuelva filas: inserted=false.
// Dentro de una transacción, una entrega concurrente con la misma clave espera al commit de la primera.
func (r *WebhookEventRepo) Record(ctx context.Context, ev *entity.WebhookEvent) (bool, error) {
	query := `
		INSERT INTO webhook_eventos (id, provider, event_type, provider_event_id, status, payload, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT ON CONSTRAINT webhook_eventos_key DO UPDATE
			SET payload = EXCLUDED.payload, received_at = EXCLUDED.received_at
			WHERE webhook_eventos.processed_at IS NULL
		RETURNING id`
	var id string
	err := r.q.QueryRow(ctx, query,
		ev.ID, ev.Provider, ev.EventType, ev.ProviderEventID, ev.Status, ev.Payload, ev.ReceivedAt,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("insert webhook_evento: %w", err)
	}
	ev.ID = id
	return true, nil
}

// MarkProcessed marca el evento como procesado y limpia un error previo.
func (r *WebhookEventRepo) MarkProcessed(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE webhook_eventos SET processed_at = now(), processing_error = '' WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark webhook_evento processed: %w", err)
	}
	return nil
}

// MarkFailed guarda el error de procesamiento.
func (r *WebhookEventRepo) MarkFailed(ctx context.Context, id, processingError string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE webhook_eventos SET processing_error = $2 WHERE id = $1 AND processed_at IS NULL`, id, processingError)
	if err != nil {
		return fmt.Errorf("mark webhook_evento failed: %w", err)
	}
	return nil
}
