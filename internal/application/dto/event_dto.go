package dto

import "time"

// ScheduleEventRequest entrada de POST /api/comercial/eventos.
type ScheduleEventRequest struct {
	LeadID        string     `json:"lead_id"`
	BarName       string     `json:"bar_name"`
	Fecha         *time.Time `json:"fecha"`
	Titulo        string     `json:"titulo" validate:"omitempty,max=200"`
	CapacidadMeta *int       `json:"capacidad_meta" validate:"omitempty,min=1,max=100000"`
	Ubicacion     string     `json:"ubicacion" validate:"omitempty,max=300"`
	Descripcion   string     `json:"descripcion" validate:"omitempty,max=2000"`
}

// EventResponse salida de un evento.
type EventResponse struct {
	ID            string    `json:"id"`
	BarID         string    `json:"bar_id"`
	ComercialID   string    `json:"comercial_id"`
	LeadID        string    `json:"lead_id,omitempty"`
	Titulo        string    `json:"titulo"`
	Fecha         time.Time `json:"fecha"`
	CapacidadMeta *int      `json:"capacidad_meta,omitempty"`
	Ubicacion     string    `json:"ubicacion,omitempty"`
	Descripcion   string    `json:"descripcion,omitempty"`
	Estado        string    `json:"estado"`
	CreatedAt     time.Time `json:"created_at"`
}

// ScheduleEventResponse salida de la programación.
type ScheduleEventResponse struct {
	Success bool          `json:"success"`
	Event   EventResponse `json:"event"`
	Lead    LeadSummary   `json:"lead"`
	Message string        `json:"message"`
}

// UpdateEventStatusRequest cambio de estado de un evento.
type UpdateEventStatusRequest struct {
	Estado string `json:"estado" validate:"required,oneof=EN_CURSO COMPLETADO CANCELADO"`
}
