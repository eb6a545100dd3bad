package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionResponse salida de una comisión.
type CommissionResponse struct {
	ID             string          `json:"id"`
	LeadID         string          `json:"lead_id,omitempty"`
	Tipo           string          `json:"tipo"`
	Monto          decimal.Decimal `json:"monto"`
	MontoNeto      decimal.Decimal `json:"monto_neto"`
	Concepto       string          `json:"concepto"`
	Estado         string          `json:"estado"`
	FechaCausacion time.Time       `json:"fecha_causacion"`
	TransaccionID  string          `json:"transaccion_id,omitempty"`
}

// PayoutResponse agregación mensual de comisiones.
type PayoutResponse struct {
	Period     string          `json:"period"` // YYYY-MM
	Label      string          `json:"label"`  // ej: "Febrero 2026"
	Count      int             `json:"count"`
	TotalBruto decimal.Decimal `json:"total_bruto"`
	TotalNeto  decimal.Decimal `json:"total_neto"`
	Estado     string          `json:"estado"` // PAGADO, PROCESANDO, PENDIENTE
}

// UpdateCommissionStatusRequest avance del ciclo de vida (admin).
type UpdateCommissionStatusRequest struct {
	Estado string `json:"estado" validate:"required,oneof=VALIDADA POR_PAGAR PAGADA"`
}
