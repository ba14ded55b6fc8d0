package queue

import (
	"context"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/audit"
	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/tenant"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/timezone"
)

type RebuildResult struct {
	Removed int                 `json:"removed"`
	Moved   int                 `json:"moved"`
	Entries []models.QueueEntry `json:"entries"`
}

// Rebuild é o caminho de recuperação: relê a fila, descarta entradas cujo
// agendamento já terminou e recalcula todas as posições do zero.
type Rebuild struct {
	repo     apdomain.Repository
	settings settings.Source
	lanes    *tenant.Lanes
	notifier notify.Publisher
	audit    *audit.Dispatcher

	Clock timezone.Clock
}

func NewRebuild(
	repo apdomain.Repository,
	settings settings.Source,
	lanes *tenant.Lanes,
	notifier notify.Publisher,
	audit *audit.Dispatcher,
) *Rebuild {
	return &Rebuild{
		repo:     repo,
		settings: settings,
		lanes:    lanes,
		notifier: notifier,
		audit:    audit,
	}
}

func (uc *Rebuild) Execute(
	ctx context.Context,
	barbershopID uint,
	actorID *uint,
) (*RebuildResult, error) {

	st, err := uc.settings.Get(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	var (
		result RebuildResult
		moved  []models.QueueEntry
	)

	err = uc.lanes.Do(ctx, barbershopID, func(ctx context.Context) error {
		return uc.repo.Transaction(ctx, func(tx apdomain.Repository) error {
			result, moved = RebuildResult{}, nil

			board, err := loadBoard(ctx, tx, barbershopID, st)
			if err != nil {
				return err
			}

			before := make(map[uint]models.QueueEntry)
			for _, e := range board.Entries() {
				before[e.ID] = e

				ap, err := tx.GetAppointment(ctx, barbershopID, e.AppointmentID)
				if err != nil && !httperr.Is(err, httperr.KindNotFound) {
					return err
				}
				if err == nil && !apdomain.Status(ap.Status).IsTerminal() {
					continue
				}

				if err := tx.DeleteQueueEntry(ctx, e.ID); err != nil {
					return err
				}
				board.Remove(e.AppointmentID)
				result.Removed++
			}

			board.Renumber()
			for _, e := range board.Entries() {
				if err := tx.UpdateQueueEntry(ctx, &e); err != nil {
					return err
				}
				prev := before[e.ID]
				if prev.Position != e.Position || prev.EstimatedWait != e.EstimatedWait {
					moved = append(moved, e)
				}
			}

			result.Moved = len(moved)
			result.Entries = board.Entries()
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	now := uc.Clock.Now()
	PublishAll(uc.notifier, PositionEvents(barbershopID, moved, now))

	uc.audit.Dispatch(audit.Event{
		BarbershopID: barbershopID,
		ActorID:      actorID,
		Action:       "queue_rebuilt",
		Entity:       "queue",
		Metadata:     map[string]any{"removed": result.Removed, "moved": result.Moved},
	})

	return &result, nil
}
