// Package commission contiene las reglas de causación y ciclo de vida de comisiones.
package commission

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/wingman-crm/internal/domain"
)

// Estados del ciclo de vida de una comisión.
const (
	StatusCausada  = "CAUSADA"
	StatusValidada = "VALIDADA"
	StatusPorPagar = "POR_PAGAR"
	StatusPagada   = "PAGADA"
)

// TypeDirecta comisión causada por el pago de la suscripción del bar.
const TypeDirecta = "AFILIACION_DIRECTA"

// Estados agregados de un payout mensual.
const (
	PayoutPagado     = "PAGADO"
	PayoutProcesando = "PROCESANDO"
	PayoutPendiente  = "PENDIENTE"
)

// Rate porcentaje fijo que recibe el comercial sobre el valor de la suscripción.
var Rate = decimal.NewFromFloat(0.15)

// NetAmount calcula la comisión del comercial sobre el monto bruto, redondeada a centavos.
func NetAmount(gross decimal.Decimal) decimal.Decimal {
	return gross.Mul(Rate).Round(2)
}

var next = map[string]string{
	StatusCausada:  StatusValidada,
	StatusValidada: StatusPorPagar,
	StatusPorPagar: StatusPagada,
}

// ValidateTransition solo permite avanzar un paso en el ciclo CAUSADA → VALIDADA → POR_PAGAR → PAGADA.
func ValidateTransition(from, to string) error {
	want, ok := next[from]
	if !ok {
		return fmt.Errorf("%w: la comisión en %s no admite cambios", domain.ErrInvalidTransition, from)
	}
	if to != want {
		return fmt.Errorf("%w: %s -> %s (siguiente permitido: %s)", domain.ErrInvalidTransition, from, to, want)
	}
	return nil
}

// PendingStatuses estados de comisiones causadas aún no pagadas.
func PendingStatuses() []string {
	return []string{StatusCausada, StatusValidada, StatusPorPagar}
}

// PayoutStatus agrega los estados de las comisiones de un periodo.
func PayoutStatus(statuses []string) string {
	if len(statuses) == 0 {
		return PayoutPendiente
	}
	allPaid := true
	processing := false
	for _, s := range statuses {
		if s != StatusPagada {
			allPaid = false
		}
		if s == StatusValidada || s == StatusPorPagar {
			processing = true
		}
	}
	switch {
	case allPaid:
		return PayoutPagado
	case processing:
		return PayoutProcesando
	default:
		return PayoutPendiente
	}
}
