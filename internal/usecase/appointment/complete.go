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

type CompleteAppointment struct {
	repo     domain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewCompleteAppointment(
	repo domain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *CompleteAppointment {
	return &CompleteAppointment{
		repo:     repo,
		settings: settings,
		lanes:    lanes,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute conclui o atendimento. A entrada da fila (atendida) sai e quem
// estava atrás sobe.
func (uc *CompleteAppointment) Execute(
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

			if err := domain.Complete(ap, now); err != nil {
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

	ev := notify.NewEvent(notify.AppointmentCompleted, barbershopID, ap.ID, now)
	ev.Protocol = ap.Protocol
	ev.ClientName = ap.ClientName
	ev.ClientPhone = ap.ClientPhone
	uc.notifier.Publish(ev)

	ucqueue.PublishAll(uc.notifier, ucqueue.PositionEvents(barbershopID, moved, now))

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "appointment_completed",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
