package repository

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// NotificationRepository outbox de notificaciones.
type NotificationRepository interface {
	Enqueue(ctx context.Context, n *entity.Notification) error
	// ClaimPending bloquea hasta limit mensajes pendientes (FOR UPDATE SKIP LOCKED); usar dentro de una transacción.
	ClaimPending(ctx context.Context, limit, maxAttempts int) ([]*entity.Notification, error)
	MarkSent(ctx context.Context, id string) error
	MarkFailed(ctx context.Context, id, lastError string) error
}
