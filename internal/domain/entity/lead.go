package entity

import (
	"time"

	"github.com/jhoicas/wingman-crm/internal/domain/pipeline"
)

// Fuentes de captura de un lead.
const (
	LeadSourceWebform = "WEBFORM"
)

// Lead oportunidad comercial asociada 1:1 a un Bar y a un comercial dueño.
type Lead struct {
	ID               string
	BarID            string
	OwnerID          string // comercial.id
	Source           string
	NombreContacto   string
	EmailContacto    string
	TelefonoContacto string
	Ciudad           string
	Nota             string // nota inicial de registro; el historial vive en lead_historial
	Score            int
	Etapa            pipeline.Stage
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// LeadDetail lead con los datos del bar y del comercial (lecturas con join).
type LeadDetail struct {
	Lead
	BarName     string
	BarAddress  string
	OwnerNombre string
	OwnerEmail  string
}
