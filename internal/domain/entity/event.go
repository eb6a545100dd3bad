package entity

import "time"

// Estados de un evento.
const (
	EventStatusProgramado = "PROGRAMADO"
	EventStatusEnCurso    = "EN_CURSO"
	EventStatusCompletado = "COMPLETADO"
	EventStatusCancelado  = "CANCELADO"
)

var eventTransitions = map[string]map[string]bool{
	EventStatusProgramado: {EventStatusEnCurso: true, EventStatusCancelado: true},
	EventStatusEnCurso:    {EventStatusCompletado: true, EventStatusCancelado: true},
}

// Event evento de demo/activación en un bar, a cargo de un comercial.
type Event struct {
	ID            string
	BarID         string
	ComercialID   string
	LeadID        string
	Titulo        string
	Fecha         time.Time
	CapacidadMeta *int
	Ubicacion     string
	Descripcion   string
	Estado        string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CanMoveTo informa si el evento puede pasar al estado indicado.
func (e *Event) CanMoveTo(estado string) bool {
	return eventTransitions[e.Estado][estado]
}
