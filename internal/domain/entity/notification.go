package entity

import "time"

// Tipos de notificación del outbox.
const (
	NotificationComisionCausada = "COMISION_CAUSADA"
	NotificationPagoRechazado   = "PAGO_RECHAZADO"
)

// Notification mensaje pendiente en el outbox, escrito en la misma transacción que su causa.
type Notification struct {
	ID           string
	Tipo         string
	Destinatario string
	Asunto       string
	Cuerpo       string
	Attempts     int
	LastError    string
	CreatedAt    time.Time
	ProcessedAt  *time.Time
}
