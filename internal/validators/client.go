package validators

import (
	"strings"
	"unicode/utf8"
)

const (
	minNameLen  = 2
	maxNameLen  = 100
	minPhoneLen = 8
	maxPhoneLen = 15
)

// ClientName normaliza espaços e valida o tamanho do nome.
func ClientName(name string) (string, bool) {
	name = strings.Join(strings.Fields(name), " ")
	n := utf8.RuneCountInString(name)
	return name, n >= minNameLen && n <= maxNameLen
}

// Phone reduz o telefone aos dígitos (mantém "+" inicial) e valida o tamanho.
// "(11) 98765-4321" vira "11987654321".
func Phone(phone string) (string, bool) {
	phone = strings.TrimSpace(phone)

	var b strings.Builder
	digits := 0
	for i, r := range phone {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", false
		}
	}

	return b.String(), digits >= minPhoneLen && digits <= maxPhoneLen
}
