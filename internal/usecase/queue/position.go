package queue

import (
	"context"

	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
)

// Position é a visão do cliente sobre a fila. Position nil = não está
// aguardando (fora da fila, já chamado ou a caminho).
type Position struct {
	AppointmentID uint   `json:"appointment_id"`
	QueueStatus   string `json:"queue_status,omitempty"`
	Position      *int   `json:"position"`
	EstimatedWait *int   `json:"estimated_wait"`
}

// GetPosition é leitura pura: não passa pela lane da barbearia.
type GetPosition struct {
	repo apdomain.Repository
}

func NewGetPosition(repo apdomain.Repository) *GetPosition {
	return &GetPosition{repo: repo}
}

func (uc *GetPosition) Execute(
	ctx context.Context,
	barbershopID uint,
	appointmentID uint,
) (*Position, error) {

	if _, err := uc.repo.GetAppointment(ctx, barbershopID, appointmentID); err != nil {
		return nil, err
	}

	out := &Position{AppointmentID: appointmentID}

	entry, err := uc.repo.GetQueueEntryByAppointment(ctx, barbershopID, appointmentID)
	if httperr.Is(err, httperr.KindNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	out.QueueStatus = entry.Status
	if domain.Status(entry.Status) == domain.StatusWaiting {
		pos, wait := entry.Position, entry.EstimatedWait
		out.Position = &pos
		out.EstimatedWait = &wait
	}

	return out, nil
}
