package pipeline

import (
	"fmt"

	"github.com/jhoicas/wingman-crm/internal/domain"
)

// manual transiciones que un comercial o admin puede pedir directamente.
// ACTIVO no aparece como destino: solo lo asigna la confirmación de pago.
var manual = map[Stage]map[Stage]bool{
	Prospecto:      {Contactado: true, DemoProgramada: true},
	Contactado:     {DemoProgramada: true},
	DemoProgramada: {DemoRealizada: true},
	DemoRealizada:  {},
	Activo:         {Onboarding: true},
	Onboarding:     {Suscripcion: true},
	Suscripcion:    {Renovacion: true},
	Renovacion:     {Suscripcion: true},
}

// ValidateManual valida un cambio de etapa pedido por un usuario.
// PERDIDO se valida como MarkLost.
func ValidateManual(from, to Stage) error {
	if to == Activo {
		return domain.ErrActivationByPaymentOnly
	}
	if to == Perdido {
		return ValidateLost(from)
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: el lead está en %s", domain.ErrInvalidTransition, from)
	}
	if to.IsActive() && !from.IsActive() {
		return domain.ErrActivationByPaymentOnly
	}
	if !manual[from][to] {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateLost PERDIDO es alcanzable desde cualquier etapa no terminal.
func ValidateLost(from Stage) error {
	if from.IsTerminal() {
		return fmt.Errorf("%w: el lead ya está en %s", domain.ErrInvalidTransition, from)
	}
	return nil
}

// Activation resuelve la etapa tras un pago aprobado.
// Etapas previas al pago y PERDIDO pasan a ACTIVO; el grupo activo conserva su etapa.
func Activation(from Stage) (Stage, bool) {
	if from.IsActive() {
		return from, false
	}
	return Activo, true
}

// ScheduleTarget resuelve la etapa tras programar un evento.
// Antes de la demo el lead pasa a DEMO_PROG; en etapas posteriores la etapa no retrocede.
func ScheduleTarget(from Stage) (Stage, error) {
	if from.IsTerminal() {
		return "", fmt.Errorf("%w: no se pueden programar eventos para un lead %s", domain.ErrInvalidTransition, from)
	}
	if rank[from] < rank[DemoProgramada] {
		return DemoProgramada, nil
	}
	return from, nil
}
