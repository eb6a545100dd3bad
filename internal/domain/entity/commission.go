package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Commission comisión de un comercial, causada por un pago aprobado.
type Commission struct {
	ID             string
	ComercialID    string
	LeadID         string
	Tipo           string
	Monto          decimal.Decimal // valor bruto de la transacción (COP)
	MontoNeto      decimal.Decimal // comisión del comercial
	Concepto       string
	Estado         string // CAUSADA, VALIDADA, POR_PAGAR, PAGADA
	FechaCausacion time.Time
	TransaccionID  string // id de la transacción en Wompi (único)
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
