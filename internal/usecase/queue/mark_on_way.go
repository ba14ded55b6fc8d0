package queue

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

// MarkOnWay: cliente chamado avisou que está a caminho. Appointment e
// QueueEntry mudam juntos.
type MarkOnWay struct {
	repo     apdomain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewMarkOnWay(
	repo apdomain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	audit *audit.Dispatcher,
) *MarkOnWay {
	return &MarkOnWay{
		repo:     repo,
		settings: settings,
		lanes:    lanes,
		audit:    audit,
	}
}

func (uc *MarkOnWay) Execute(
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

	var ap *models.Appointment
	now := uc.Clock.NowIn(shop.Timezone)

	err = uc.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx apdomain.Repository) error {
			var err error
			ap, err = tx.GetAppointment(ctx, barbershopID, appointmentID)
			if err != nil {
				return err
			}

			if err := apdomain.MarkOnWay(ap, now); err != nil {
				return err
			}
			if err := tx.UpdateAppointment(ctx, ap); err != nil {
				return err
			}

			board, err := loadBoard(ctx, tx, barbershopID, st)
			if err != nil {
				return err
			}
			if _, ok := board.Find(appointmentID); !ok {
				return nil
			}

			entry, err := board.MarkOnWay(appointmentID, now)
			if err != nil {
				return err
			}
			return tx.UpdateQueueEntry(ctx, &entry)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "client_on_way",
		Entity:       "appointment",
		EntityID:     &ap.ID,
	})

	return ap, nil
}
