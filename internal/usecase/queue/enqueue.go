package queue

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

type Enqueue struct {
	repo     apdomain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewEnqueue(
	repo apdomain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *Enqueue {
	return &Enqueue{
		repo:     repo,
		settings: settings,
		lanes:    lanes,
		notifier: notifier,
		audit:    audit,
	}
}

func (uc *Enqueue) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
	appointmentID uint,
) (*models.QueueEntry, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	st, err := uc.settings.Get(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	var (
		entry *models.QueueEntry
		ap    *models.Appointment
	)
	now := uc.Clock.NowIn(shop.Timezone)

	err = uc.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx apdomain.Repository) error {
			var err error
			ap, err = tx.GetAppointment(ctx, barbershopID, appointmentID)
			if err != nil {
				return err
			}

			entry, err = EnqueueTx(ctx, tx, st, ap, now)
			return err
		})
	})
	if err != nil {
		return nil, err
	}

	ev := notify.NewEvent(notify.QueuePositionChanged, barbershopID, ap.ID, now)
	ev.Protocol = ap.Protocol
	ev.Position = entry.Position
	ev.EstimatedWait = entry.EstimatedWait
	uc.notifier.Publish(ev)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "queue_enqueued",
		Entity:       "queue_entry",
		EntityID:     &entry.ID,
		Metadata:     map[string]any{"appointment_id": ap.ID, "position": entry.Position},
	})

	return entry, nil
}
