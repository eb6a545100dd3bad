// Package money formatea montos en pesos colombianos para textos legibles (historial, correos).
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.MustParse("es-CO"))

// FormatCOP devuelve "$100.000 COP". Los centavos se redondean al peso.
func FormatCOP(amount decimal.Decimal) string {
	return printer.Sprintf("$%d COP", amount.Round(0).IntPart())
}

// FromCents convierte centavos (amount_in_cents de Wompi) a pesos.
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// ToCents convierte pesos a centavos.
func ToCents(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
