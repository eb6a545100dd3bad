// Package nit agrupa utilidades del NIT colombiano (número de identificación tributaria).
package nit

import (
	"strings"
	"unicode"
)

// pesos para el cálculo del dígito de verificación NIT (Orden Administrativa 4 de 1989, DIAN).
// Se aplican de derecha a izquierda sobre los dígitos del número base.
var weights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// Base devuelve el NIT base: el texto antes del primer "-", sin espacios alrededor.
// "900123456-7" -> "900123456". No normaliza puntos ni mayúsculas.
func Base(raw string) string {
	base, _, _ := strings.Cut(raw, "-")
	return strings.TrimSpace(base)
}

// VerificationDigit calcula el dígito de verificación (módulo 11) del número base.
// Devuelve false si base no tiene dígitos o excede 15.
func VerificationDigit(base string) (byte, bool) {
	digits := extractDigits(base)
	if len(digits) == 0 || len(digits) > len(weights) {
		return 0, false
	}
	var sum int
	for i := 0; i < len(digits); i++ {
		d := digits[len(digits)-1-i]
		sum += int(d-'0') * weights[i]
	}
	remainder := sum % 11
	if remainder == 0 || remainder == 1 {
		return byte('0' + remainder), true
	}
	return byte('0' + (11 - remainder)), true
}

// HasValidVerificationDigit informa si el NIT trae sufijo "-D" y coincide con el calculado.
// Sin sufijo devuelve false.
func HasValidVerificationDigit(raw string) bool {
	base, dv, ok := strings.Cut(raw, "-")
	if !ok {
		return false
	}
	dv = strings.TrimSpace(dv)
	if len(dv) != 1 || !unicode.IsDigit(rune(dv[0])) {
		return false
	}
	expected, ok := VerificationDigit(base)
	return ok && expected == dv[0]
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
