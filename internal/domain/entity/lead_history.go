package entity

import (
	"time"

	"github.com/google/uuid"
)

// Tipos de entrada del historial de un lead.
const (
	HistoryRegistro         = "REGISTRO"
	HistoryCambioEtapa      = "CAMBIO_ETAPA"
	HistoryEventoProgramado = "EVENTO_PROGRAMADO"
	HistoryPerdido          = "PERDIDO"
	HistoryLinkPago         = "LINK_PAGO"
	HistoryPagoAprobado     = "PAGO_APROBADO"
	HistoryPagoRechazado    = "PAGO_RECHAZADO"
)

// Actor del sistema para cambios que no hace un usuario.
const ActorWompi = "webhook:wompi"

// LeadHistory fila append-only del historial de un lead.
type LeadHistory struct {
	ID            string
	LeadID        string
	Tipo          string
	EtapaAnterior string
	EtapaNueva    string
	Descripcion   string
	Actor         string // comercial.id, user id o actor de sistema
	Metadata      map[string]any
	CreatedAt     time.Time
}

// NewLeadHistory construye una entrada del historial con ID y fecha asignados.
func NewLeadHistory(leadID, tipo, actor, descripcion string, now time.Time) *LeadHistory {
	return &LeadHistory{
		ID:          uuid.New().String(),
		LeadID:      leadID,
		Tipo:        tipo,
		Actor:       actor,
		Descripcion: descripcion,
		CreatedAt:   now,
	}
}

// WithStages registra el cambio de etapa.
func (h *LeadHistory) WithStages(from, to string) *LeadHistory {
	h.EtapaAnterior = from
	h.EtapaNueva = to
	return h
}

// WithMetadata adjunta datos estructurados.
func (h *LeadHistory) WithMetadata(md map[string]any) *LeadHistory {
	h.Metadata = md
	return h
}
