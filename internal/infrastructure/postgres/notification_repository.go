package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
	"github.com/jhoicas/wingman-crm/internal/domain/repository"
)

var _ repository.NotificationRepository = (*NotificationRepo)(nil)

// NotificationRepo outbox en outbox_notificaciones.
type NotificationRepo struct {
	q Querier
}

// NewNotificationRepository construye el adaptador.
func NewNotificationRepository(q Querier) *NotificationRepo {
	return &NotificationRepo{q: q}
}

// Enqueue inserta un mensaje pendiente.
func (r *NotificationRepo) Enqueue(ctx context.Context, n *entity.Notification) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO outbox_notificaciones (id, tipo, destinatario, asunto, cuerpo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		n.ID, n.Tipo, n.Destinatario, n.Asunto, n.Cuerpo, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notificacion: %w", err)
	}
	return nil
}

// ClaimPending bloquea los mensajes pendientes más antiguos; otras réplicas saltan las filas bloqueadas.
func (r *NotificationRepo) ClaimPending(ctx context.Context, limit, maxAttempts int) ([]*entity.Notification, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, tipo, destinatario, asunto, cuerpo, attempts, last_error, created_at
		FROM outbox_notificaciones
		WHERE processed_at IS NULL AND attempts < $2
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED`, limit, maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("claim notificaciones: %w", err)
	}
	defer rows.Close()
	var list []*entity.Notification
	for rows.Next() {
		var n entity.Notification
		if err := rows.Scan(&n.ID, &n.Tipo, &n.Destinatario, &n.Asunto, &n.Cuerpo, &n.Attempts, &n.LastError, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notificacion: %w", err)
		}
		list = append(list, &n)
	}
	return list, rows.Err()
}

// MarkSent marca el mensaje como enviado.
func (r *NotificationRepo) MarkSent(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `UPDATE outbox_notificaciones SET processed_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark notificacion sent: %w", err)
	}
	return nil
}

// MarkFailed incrementa los intentos y guarda el último error.
func (r *NotificationRepo) MarkFailed(ctx context.Context, id, lastError string) error {
	_, err := r.q.Exec(ctx,
		`UPDATE outbox_notificaciones SET attempts = attempts + 1, last_error = $2 WHERE id = $1`, id, lastError)
	if err != nil {
		return fmt.Errorf("mark notificacion failed: %w", err)
	}
	return nil
}
