// Package pipeline define las etapas del embudo comercial y la tabla de transiciones permitidas.
package pipeline

import (
	"fmt"
	"strings"

	"github.com/jhoicas/wingman-crm/internal/domain"
)

// Stage etapa de un lead en el embudo.
type Stage string

const (
	Prospecto      Stage = "PROSPECTO"
	Contactado     Stage = "CONTACTADO"
	DemoProgramada Stage = "DEMO_PROG"
	DemoRealizada  Stage = "DEMO_REAL"
	Activo         Stage = "ACTIVO"
	Onboarding     Stage = "ONBOARDING"
	Suscripcion    Stage = "SUSCRIPCION"
	Renovacion     Stage = "RENOVACION"
	Perdido        Stage = "PERDIDO"
)

// Group agrupación de etapas para el tablero (columnas del kanban).
type Group string

const (
	GroupProspecto  Group = "prospecto"
	GroupContactado Group = "contactado"
	GroupDemo       Group = "demo"
	GroupActivo     Group = "activo"
	GroupPerdido    Group = "perdido"
)

// rank posición en el embudo; las etapas del grupo activo comparten el ciclo post-venta.
var rank = map[Stage]int{
	Prospecto:      0,
	Contactado:     1,
	DemoProgramada: 2,
	DemoRealizada:  3,
	Activo:         4,
	Onboarding:     5,
	Suscripcion:    6,
	Renovacion:     7,
}

// All lista las etapas en orden del embudo.
func All() []Stage {
	return []Stage{Prospecto, Contactado, DemoProgramada, DemoRealizada, Activo, Onboarding, Suscripcion, Renovacion, Perdido}
}

// Parse interpreta el nombre de una etapa (sin distinguir mayúsculas).
func Parse(s string) (Stage, error) {
	st := Stage(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := rank[st]; ok || st == Perdido {
		return st, nil
	}
	return "", fmt.Errorf("%w: etapa desconocida %q", domain.ErrInvalidInput, s)
}

// String implementa fmt.Stringer.
func (s Stage) String() string { return string(s) }

// IsTerminal PERDIDO no admite transiciones manuales de salida.
func (s Stage) IsTerminal() bool { return s == Perdido }

// IsActive informa si la etapa pertenece al grupo de clientes activos (post-pago).
func (s Stage) IsActive() bool {
	switch s {
	case Activo, Onboarding, Suscripcion, Renovacion:
		return true
	}
	return false
}

// Group devuelve la columna del tablero para la etapa.
func (s Stage) Group() Group {
	switch {
	case s == Prospecto:
		return GroupProspecto
	case s == Contactado:
		return GroupContactado
	case s == DemoProgramada || s == DemoRealizada:
		return GroupDemo
	case s.IsActive():
		return GroupActivo
	default:
		return GroupPerdido
	}
}

// ActiveStages etapas del grupo activo (para conteos de suscripciones).
func ActiveStages() []Stage {
	return []Stage{Activo, Onboarding, Suscripcion, Renovacion}
}
