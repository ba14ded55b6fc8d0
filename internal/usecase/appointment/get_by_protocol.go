package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/dto"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	ucqueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
)

type ProtocolView struct {
	Appointment dto.AppointmentListDTO `json:"appointment"`
	Queue       *ucqueue.Position      `json:"queue"`
}

// GetByProtocol é a consulta pública do cliente: situação do agendamento e,
// se estiver na fila, posição e espera estimada.
type GetByProtocol struct {
	repo     domain.Repository
	position *ucqueue.GetPosition
}

func NewGetByProtocol(repo domain.Repository) *GetByProtocol {
	return &GetByProtocol{
		repo:     repo,
		position: ucqueue.NewGetPosition(repo),
	}
}

// Resolve encontra o agendamento pelo protocolo como o cliente digitou.
func (uc *GetByProtocol) Resolve(
	ctx context.Context,
	barbershopID uint,
	protocol string,
) (*models.Appointment, error) {
	return uc.repo.GetAppointmentByProtocol(ctx, barbershopID, domain.NormalizeProtocol(protocol))
}

func (uc *GetByProtocol) Execute(
	ctx context.Context,
	barbershopID uint,
	protocol string,
) (*ProtocolView, error) {

	ap, err := uc.Resolve(ctx, barbershopID, protocol)
	if err != nil {
		return nil, err
	}

	pos, err := uc.position.Execute(ctx, barbershopID, ap.ID)
	if err != nil {
		return nil, err
	}

	return &ProtocolView{
		Appointment: dto.NewAppointmentList(*ap),
		Queue:       pos,
	}, nil
}
