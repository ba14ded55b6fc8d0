package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
	ucqueue "github.com/BruksfildServices01/barbershop-scheduler/internal/usecase/queue"
)

type CancelAppointment struct {
	repo     domain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *CancelAppointment {
	return &CancelAppointment{
		repo:     repo,
		settings: settings,
		lanes:    lanes,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute cancela o agendamento, libera o horário e tira o cliente da fila
// (com renumeração) na mesma transação.
func (uc *CancelAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	st, err := uc.settings.Get(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	var (
		ap    *models.Appointment
		moved []models.QueueEntry
	)
	now := uc.Clock.NowIn(shop.Timezone)

	err = uc.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			var err error
			ap, err = tx.GetAppointment(ctx, barbershopID, appointmentID)
			if err != nil {
				return err
			}

			if err := domain.Cancel(ap, now); err != nil {
				return err
			}
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}

			moved, err = ucqueue.RemoveTx(ctx, tx, st, barbershopID, ap.ID)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	ucqueue.PublishAll(uc.notifier, ucqueue.PositionEvents(barbershopID, moved, now))

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "appointment_cancelled",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
