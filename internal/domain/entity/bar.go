package entity

import "time"

// Estados de verificación de un bar.
const (
	BarStatusPending  = "pending_verification"
	BarStatusActive   = "active"
	BarStatusRejected = "rejected"
)

// Bar representa un establecimiento (venue) prospectado por un comercial.
type Bar struct {
	ID               string
	Name             string
	NIT              string // NIT completo tal como se registró, "" = sin NIT
	Address          string
	Ciudad           string
	CapacidadOficial *int
	ContactoNombre   string
	ContactoTelefono string // E.164 cuando se pudo normalizar
	ContactoEmail    string
	Description      string
	AccountStatus    string // pending_verification, active, rejected
	MotivoRechazo    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
