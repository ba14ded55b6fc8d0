package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type HTTPError struct {
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

var messages = map[string]string{
	"invalid_client_name":        "Nome do cliente inválido.",
	"invalid_client_phone":       "Telefone do cliente inválido.",
	"invalid_duration":           "Duração do serviço inválida.",
	"invalid_date":               "Data inválida.",
	"invalid_time":               "Horário inválido.",
	"invalid_hours":              "Horário de funcionamento inválido.",
	"invalid_lunch":              "Intervalo de almoço inválido.",
	"invalid_queue_size":         "Tamanho máximo da fila inválido.",
	"invalid_settings":           "Configuração inválida.",
	"invalid_service_name":       "Nome do serviço inválido.",
	"invalid_price":              "Preço inválido.",
	"invalid_professional_name":  "Nome do profissional inválido.",
	"invalid_professional_phone": "Telefone do profissional inválido.",
	"invalid_year":               "Ano inválido.",
	"invalid_month":              "Mês inválido.",
	"too_soon":                   "Horário muito próximo ou no passado.",
	"slot_unavailable":           "Horário não está mais disponível. Escolha outro.",
	"professional_unavailable":   "Profissional indisponível para novos agendamentos.",
	"barbershop_not_found":       "Barbearia não encontrada.",
	"service_not_found":          "Serviço não encontrado.",
	"barber_not_found":           "Profissional não encontrado.",
	"appointment_not_found":      "Agendamento não encontrado.",
	"queue_entry_not_found":      "Cliente não está na fila.",
	"settings_not_found":         "Configuração não encontrada.",
	"blocked_slot_not_found":     "Bloqueio não encontrado.",
	"override_not_found":         "Grade especial não encontrada.",
	"queue_full":                 "A fila está cheia.",
	"queue_disabled":             "A fila está desativada.",
	"already_in_queue":           "Agendamento já está na fila.",
}

// Respond traduz o erro de um use case para a resposta HTTP.
// Transições inválidas são bug de UI: ficam no log e voltam como falha genérica.
func Respond(c *gin.Context, err error) {
	logger := zerolog.Ctx(c.Request.Context())

	code := ""
	var be BusinessError
	if errors.As(err, &be) {
		code = be.Code
	}
	msg := messages[code]
	if msg == "" {
		msg = "Requisição inválida."
	}

	switch KindOf(err) {
	case KindValidation, KindBusiness:
		BadRequest(c, code, msg)
	case KindNotFound:
		NotFound(c, code, msg)
	case KindSlotUnavailable, KindConflict:
		Conflict(c, code, msg)
	case KindInvalidTransition:
		logger.Warn().Str("code", code).Str("path", c.FullPath()).Msg("invalid state transition")
		Conflict(c, "invalid_state", "Operação não permitida no estado atual.")
	default:
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		Internal(c, "internal_error", "Erro interno.")
	}
}
