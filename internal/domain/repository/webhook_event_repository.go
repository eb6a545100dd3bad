package repository

import (
	"context"

	"github.com/jhoicas/wingman-crm/internal/domain/entity"
)

// WebhookEventRepository registro e idempotencia de callbacks de proveedores.
type WebhookEventRepository interface {
	// Record inserta el evento y deja ev.ID con el id persistido. Si la misma clave ya existe sin procesar
	// la reclama (inserted=true); si ya fue procesada devuelve inserted=false.
	Record(ctx context.Context, ev *entity.WebhookEvent) (inserted bool, err error)
	MarkProcessed(ctx context.Context, id string) error
	// MarkFailed guarda el error sin marcar como procesado, para permitir un reintento.
	MarkFailed(ctx context.Context, id, processingError string) error
}
