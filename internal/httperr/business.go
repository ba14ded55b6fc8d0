package httperr

import "errors"

// Kind classifica o erro de negócio para o mapeamento HTTP.
type Kind string

const (
	KindBusiness          Kind = "business"
	KindValidation        Kind = "validation"
	KindNotFound          Kind = "not_found"
	KindSlotUnavailable   Kind = "slot_unavailable"
	KindInvalidTransition Kind = "invalid_transition"
	KindConflict          Kind = "conflict"
)

type BusinessError struct {
	Kind Kind
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Kind: KindBusiness, Code: code}
}

func ErrValidation(code string) error {
	return BusinessError{Kind: KindValidation, Code: code}
}

func ErrNotFound(code string) error {
	return BusinessError{Kind: KindNotFound, Code: code}
}

// ErrSlotUnavailable: o horário foi ocupado entre a consulta e o commit.
// O cliente deve reconsultar a disponibilidade; não há retry automático.
func ErrSlotUnavailable(code string) error {
	return BusinessError{Kind: KindSlotUnavailable, Code: code}
}

func ErrInvalidTransition(code string) error {
	return BusinessError{Kind: KindInvalidTransition, Code: code}
}

func ErrConflict(code string) error {
	return BusinessError{Kind: KindConflict, Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// KindOf devolve o Kind de um BusinessError, ou "" para erros de infraestrutura.
func KindOf(err error) Kind {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Kind
	}
	return ""
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
