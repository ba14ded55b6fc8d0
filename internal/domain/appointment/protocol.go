package appointment

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const protocolAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

// NewProtocol gera a referência legível do agendamento: data/hora da criação
// seguida de 4 caracteres aleatórios, ex. "261018-1432-7KQ2".
// Colisões são raras; o insert trata violação de unicidade com nova tentativa.
func NewProtocol(now time.Time) string {
	id := uuid.New()

	var b strings.Builder
	b.WriteString(now.Format("060102-1504"))
	b.WriteByte('-')
	for i := 0; i < 4; i++ {
		b.WriteByte(protocolAlphabet[int(id[i])%len(protocolAlphabet)])
	}
	return b.String()
}

// NormalizeProtocol é a forma canônica de um protocolo digitado pelo cliente.
func NormalizeProtocol(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}
