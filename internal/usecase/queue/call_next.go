package queue

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

// maxClaimAttempts limita quantas cabeças de fila são tentadas numa chamada.
const maxClaimAttempts = 10

type CallNextResult struct {
	Entry       models.QueueEntry  `json:"entry"`
	Appointment models.Appointment `json:"appointment"`
}

type CallNext struct {
	repo     apdomain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewCallNext(
	repo apdomain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *CallNext {
	return &CallNext{
		repo:     repo,
		settings: settings,
		lanes:    lanes,
		notifier: notifier,
		audit:    audit,
	}
}

// Execute chama o primeiro da fila. Fila vazia devolve nil, nil.
func (uc *CallNext) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
) (*CallNextResult, error) {

	shop, err := uc.repo.GetBarbershopByID(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	st, err := uc.settings.Get(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	var (
		result *CallNextResult
		moved  []models.QueueEntry
	)
	now := uc.Clock.NowIn(shop.Timezone)

	err = uc.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx apdomain.Repository) error {
			result, moved = nil, nil

			for attempt := 0; attempt < maxClaimAttempts; attempt++ {
				board, err := loadBoard(ctx, tx, barbershopID, st)
				if err != nil {
					return err
				}

				head, ok := board.Head()
				if !ok {
					return nil
				}

				// UPDATE condicional: só um chamador leva a entrada.
				claimed, err := tx.ClaimQueueEntry(ctx, head.ID, now)
				if err != nil {
					return err
				}
				if !claimed {
					continue
				}

				called, renumbered, err := board.Call(head.AppointmentID, now)
				if err != nil {
					return err
				}

				ap, err := tx.GetAppointment(ctx, barbershopID, head.AppointmentID)
				if httperr.Is(err, httperr.KindNotFound) || (err == nil && apdomain.CanCall(apdomain.Status(ap.Status)) != nil) {
					// entrada órfã: o agendamento saiu da fila sem limpar a entrada
					zerolog.Ctx(ctx).Warn().
						Uint("queue_entry_id", head.ID).
						Uint("appointment_id", head.AppointmentID).
						Msg("dropping stale queue entry")

					if err := tx.DeleteQueueEntry(ctx, head.ID); err != nil {
						return err
					}
					if err := saveMoved(ctx, tx, renumbered); err != nil {
						return err
					}
					moved = append(moved, renumbered...)
					continue
				}
				if err != nil {
					return err
				}

				if err := apdomain.Call(ap, now); err != nil {
					return err
				}
				if err := tx.UpdateAppointment(ctx, ap); err != nil {
					return err
				}
				if err := saveMoved(ctx, tx, renumbered); err != nil {
					return err
				}

				moved = append(moved, renumbered...)
				result = &CallNextResult{Entry: called, Appointment: *ap}
				return nil
			}

			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	PublishAll(uc.notifier, PositionEvents(barbershopID, latest(moved), now))

	if result == nil {
		return nil, nil
	}

	ev := notify.NewEvent(notify.QueueClientCalled, barbershopID, result.Appointment.ID, now)
	ev.Protocol = result.Appointment.Protocol
	ev.ClientName = result.Appointment.ClientName
	ev.ClientPhone = result.Appointment.ClientPhone
	uc.notifier.Publish(ev)

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "queue_client_called",
		Entity:       "appointment",
		EntityID:     &result.Appointment.ID,
	})

	return result, nil
}

// latest mantém só a última posição de cada entrada renumerada mais de uma vez.
func latest(moved []models.QueueEntry) []models.QueueEntry {
	idx := make(map[uint]int, len(moved))
	out := make([]models.QueueEntry, 0, len(moved))
	for _, e := range moved {
		if i, ok := idx[e.ID]; ok {
			out[i] = e
			continue
		}
		idx[e.ID] = len(out)
		out = append(out, e)
	}
	return out
}
