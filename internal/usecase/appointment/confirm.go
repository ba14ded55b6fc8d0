package appointment

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

type ConfirmAppointment struct {
	repo     domain.Repository
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewConfirmAppointment(
	repo domain.Repository,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *ConfirmAppointment {
	return &ConfirmAppointment{
		repo:     repo,
		lanes:    lanes,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute confirma o agendamento. Confirmar de novo não é erro e não
// gera evento.
func (uc *ConfirmAppointment) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	appointmentID uint,
) (*models.Appointment, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	var (
		ap      *models.Appointment
		changed bool
	)
	now := uc.Clock.NowIn(shop.Timezone)

	err = uc.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx domain.Repository) error {
			var err error
			ap, err = tx.GetAppointment(ctx, barbershopID, appointmentID)
			if err != nil {
				return err
			}

			changed, err = domain.Confirm(ap, now)
			if err != nil || !changed {
				return err
			}
			return tx.UpdateAppointment(ctx, ap)
		})
	})
	if err != nil {
		return nil, err
	}

	if !changed {
		return ap, nil
	}

	ev := notify.NewEvent(notify.AppointmentConfirmed, barbershopID, ap.ID, now)
	ev.Protocol = ap.Protocol
	ev.ClientName = ap.ClientName
	ev.ClientPhone = ap.ClientPhone
	ev.Date = ap.Date
	ev.Time = ap.Time
	uc.notifier.Publish(ev)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "appointment_confirmed",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
