// Package curpx valida el formato de la CURP (Clave Única de Registro de
// Población): 18 caracteres que codifican nombre, fecha de nacimiento, sexo,
// entidad federativa y un dígito verificador.
package curpx

import (
	"regexp"
	"strings"
)

var curpPattern = regexp.MustCompile(`^[A-Z]{1}[AEIOU]{1}[A-Z]{2}[0-9]{2}(0[1-9]|1[0-2])(0[1-9]|[12][0-9]|3[01])[HM]{1}(AS|BC|BS|CC|CL|CM|CS|CH|DF|DG|GT|GR|HG|JC|MC|MN|MS|NT|NL|OC|PL|QT|QR|SP|SL|SR|TC|TS|TL|VZ|YN|ZS|NE)[B-DF-HJ-NP-TV-Z]{3}[0-9A-Z]{1}[0-9]{1}$`)

// IsValid reporta si curp cumple el formato. La comparación no distingue
// mayúsculas: la entrada se normaliza antes de evaluar el patrón.
func IsValid(curp string) bool {
	if curp == "" {
		return false
	}
	return curpPattern.MatchString(strings.ToUpper(curp))
}

// Normalize retorna la CURP en la forma canónica (mayúsculas, sin espacios)
func Normalize(curp string) string {
	return strings.ToUpper(strings.TrimSpace(curp))
}
