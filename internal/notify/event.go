package notify

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	AppointmentCreated   Kind = "appointment.created"
	AppointmentConfirmed Kind = "appointment.confirmed"
	AppointmentCompleted Kind = "appointment.completed"
	QueueClientCalled    Kind = "queue.client_called"
	QueuePositionChanged Kind = "queue.position_changed"
)

// Event é o payload entregue aos canais (WhatsApp, push, painel).
// Entrega é best-effort: falhas nunca voltam para quem publicou.
type Event struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	BarbershopID  uint      `json:"barbershop_id"`
	AppointmentID uint      `json:"appointment_id"`
	Protocol      string    `json:"protocol,omitempty"`
	ClientName    string    `json:"client_name,omitempty"`
	ClientPhone   string    `json:"client_phone,omitempty"`
	Date          string    `json:"date,omitempty"`
	Time          string    `json:"time,omitempty"`
	Position      int       `json:"position,omitempty"`
	EstimatedWait int       `json:"estimated_wait,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func NewEvent(kind Kind, barbershopID, appointmentID uint, at time.Time) Event {
	return Event{
		ID:            uuid.NewString(),
		Kind:          kind,
		BarbershopID:  barbershopID,
		AppointmentID: appointmentID,
		OccurredAt:    at,
	}
}

// Publisher é o gancho fire-and-forget usado pelos use cases.
type Publisher interface {
	Publish(ev Event)
}

// Discard ignora todos os eventos.
type Discard struct{}

func (Discard) Publish(Event) {}
