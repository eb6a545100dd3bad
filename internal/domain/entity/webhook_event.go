package entity

import "time"

// Proveedores de webhooks.
const ProviderWompi = "wompi"

// WebhookEvent registro de un callback de proveedor; su clave única evita procesar dos veces.
type WebhookEvent struct {
	ID              string
	Provider        string
	EventType       string
	ProviderEventID string // id de la transacción o del link
	Status          string // estado reportado (APPROVED, DECLINED, ...)
	Payload         []byte
	ProcessedAt     *time.Time
	ProcessingError string
	ReceivedAt      time.Time
}
