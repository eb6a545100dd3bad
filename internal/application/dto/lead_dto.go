package dto

import "time"

// LeadSummary identificación mínima de un lead.
type LeadSummary struct {
	ID    string `json:"id"`
	Etapa string `json:"etapa"`
	Score int    `json:"score"`
}

// LeadResponse salida de un lead con datos del bar.
// Nota se llena solo en el detalle: nota de registro más el historial en texto.
type LeadResponse struct {
	ID               string    `json:"id"`
	BarID            string    `json:"bar_id"`
	BarName          string    `json:"bar_name"`
	BarAddress       string    `json:"bar_address,omitempty"`
	OwnerID          string    `json:"owner_id"`
	OwnerNombre      string    `json:"owner_nombre,omitempty"`
	Source           string    `json:"source"`
	NombreContacto   string    `json:"nombre_contacto"`
	EmailContacto    string    `json:"email_contacto,omitempty"`
	TelefonoContacto string    `json:"telefono_contacto"`
	Ciudad           string    `json:"ciudad"`
	Score            int       `json:"score"`
	Etapa            string    `json:"etapa"`
	Grupo            string    `json:"grupo"`
	Nota             string    `json:"nota,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// ListLeadsRequest filtros de GET /api/comercial/leads.
type ListLeadsRequest struct {
	PageRequest
	Etapa string `query:"etapa"`
}

// ChangeStageRequest entrada de PATCH /api/comercial/leads/:id/etapa.
type ChangeStageRequest struct {
	Etapa string `json:"etapa" validate:"required"`
}

// MarkLostRequest entrada de POST /api/comercial/leads/:id/perdido.
type MarkLostRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

// LeadHistoryResponse entrada del historial.
type LeadHistoryResponse struct {
	ID            string         `json:"id"`
	Tipo          string         `json:"tipo"`
	EtapaAnterior string         `json:"etapa_anterior,omitempty"`
	EtapaNueva    string         `json:"etapa_nueva,omitempty"`
	Descripcion   string         `json:"descripcion"`
	Actor         string         `json:"actor"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}
