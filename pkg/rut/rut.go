// Package rut valida y normaliza el RUT chileno (Rol Único Tributario).
package rut

import (
	"fmt"
	"strings"
)

// Normalize quita puntos y espacios y deja el dígito verificador en mayúscula: "11.111.111-k" -> "11111111-K".
// Si no hay guion, asume que el último carácter es el dígito verificador.
func Normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if (r >= '0' && r <= '9') || r == 'K' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if len(clean) < 2 {
		return clean
	}
	return clean[:len(clean)-1] + "-" + clean[len(clean)-1:]
}

// Validate verifica el formato y el dígito verificador (módulo 11) de un RUT ya normalizado o no.
func Validate(s string) error {
	n := Normalize(s)
	parts := strings.Split(n, "-")
	if len(parts) != 2 || len(parts[0]) < 7 || len(parts[0]) > 8 {
		return fmt.Errorf("rut: formato inválido %q", s)
	}
	body, dv := parts[0], parts[1]
	if strings.ContainsRune(body, 'K') {
		return fmt.Errorf("rut: el cuerpo solo admite dígitos")
	}
	expected := ComputeDV(body)
	if dv != expected {
		return fmt.Errorf("rut: dígito verificador inválido: esperado %s, recibido %s", expected, dv)
	}
	return nil
}

// ComputeDV calcula el dígito verificador para el cuerpo numérico del RUT.
// Pesos 2..7 aplicados de derecha a izquierda; 11 -> "0", 10 -> "K".
func ComputeDV(body string) string {
	sum, weight := 0, 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	switch r := 11 - sum%11; r {
	case 11:
		return "0"
	case 10:
		return "K"
	default:
		return fmt.Sprintf("%d", r)
	}
}
