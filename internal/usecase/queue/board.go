package queue

import (
	"context"
	"time"

	apdomain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/appointment"
	domain "github.com/BruksfildServices01/barbershop-scheduler/internal/domain/queue"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/domain/settings"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/notify"
)

// ======================================================
// Operações de fila reutilizadas dentro de transações
// ======================================================

func PolicyFor(st *models.ShopSettings) domain.Policy {
	return domain.Policy{
		AvgServiceMinutes: settings.AvgServiceMinutes(st),
		MaxSize:           st.MaxQueueSize,
	}
}

// loadBoard trava a fila da barbearia e monta o Board a partir de uma
// leitura fresca. Toda renumeração parte daqui, nunca de estado em cache.
func loadBoard(
	ctx context.Context,
	tx apdomain.Repository,
	barbershopID uint,
	st *models.ShopSettings,
) (*domain.Board, error) {

	if err := tx.LockQueue(ctx, barbershopID); err != nil {
		return nil, err
	}

	entries, err := tx.ListQueueEntries(ctx, barbershopID)
	if err != nil {
		return nil, err
	}

	return domain.NewBoard(entries, PolicyFor(st)), nil
}

func saveMoved(ctx context.Context, tx apdomain.Repository, moved []models.QueueEntry) error {
	for i := range moved {
		if err := tx.UpdateQueueEntry(ctx, &moved[i]); err != nil {
			return err
		}
	}
	return nil
}

// EnqueueTx coloca o agendamento no fim da fila, dentro de tx.
func EnqueueTx(
	ctx context.Context,
	tx apdomain.Repository,
	st *models.ShopSettings,
	ap *models.Appointment,
	now time.Time,
) (*models.QueueEntry, error) {

	if !st.QueueEnabled {
		return nil, httperr.ErrConflict("queue_disabled")
	}

	board, err := loadBoard(ctx, tx, ap.BarbershopID, st)
	if err != nil {
		return nil, err
	}

	if _, ok := board.Find(ap.ID); ok {
		return nil, httperr.ErrConflict("already_in_queue")
	}
	if err := apdomain.CanEnqueue(apdomain.Status(ap.Status)); err != nil {
		return nil, err
	}

	entry, err := board.Enqueue(ap.BarbershopID, ap.ID, now)
	if err != nil {
		return nil, err
	}

	if err := apdomain.Enqueue(ap); err != nil {
		return nil, err
	}

	if err := tx.CreateQueueEntry(ctx, &entry); err != nil {
		return nil, err
	}
	if err := tx.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	return &entry, nil
}

// RemoveTx tira o agendamento da fila (se estiver nela) e compacta as
// posições na mesma transação. Devolve as entradas que mudaram de posição.
func RemoveTx(
	ctx context.Context,
	tx apdomain.Repository,
	st *models.ShopSettings,
	barbershopID uint,
	appointmentID uint,
) ([]models.QueueEntry, error) {

	board, err := loadBoard(ctx, tx, barbershopID, st)
	if err != nil {
		return nil, err
	}

	removed, moved, ok := board.Remove(appointmentID)
	if !ok {
		return nil, nil
	}

	if err := tx.DeleteQueueEntry(ctx, removed.ID); err != nil {
		return nil, err
	}
	if err := saveMoved(ctx, tx, moved); err != nil {
		return nil, err
	}

	return moved, nil
}

// PositionEvents gera um queue.position_changed por entrada renumerada.
func PositionEvents(barbershopID uint, moved []models.QueueEntry, at time.Time) []notify.Event {
	out := make([]notify.Event, 0, len(moved))
	for _, e := range moved {
		ev := notify.NewEvent(notify.QueuePositionChanged, barbershopID, e.AppointmentID, at)
		ev.Position = e.Position
		ev.EstimatedWait = e.EstimatedWait
		out = append(out, ev)
	}
	return out
}

func PublishAll(p notify.Publisher, events []notify.Event) {
	for _, ev := range events {
		p.Publish(ev)
	}
}
