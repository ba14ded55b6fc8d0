package queue

import (
	"sort"
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"
	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

type Status string

const (
	StatusWaiting  Status = "waiting"
	StatusCalled   Status = "called"
	StatusOnWay    Status = "onway"
	StatusAttended Status = "attended"
)

// Policy vem da ShopSettings.
type Policy struct {
	AvgServiceMinutes int
	MaxSize           int
}

// EstimatedWait é heurística fixa: posição × tempo médio de atendimento.
func EstimatedWait(position, avgServiceMinutes int) int {
	return position * avgServiceMinutes
}

// Board is the in-memory view of one shop's live queue. Every mutation
// leaves waiting positions dense (1..N) in enqueue order.
type Board struct {
	entries []models.QueueEntry
	policy  Policy
}

func NewBoard(entries []models.QueueEntry, policy Policy) *Board {
	b := &Board{
		entries: append([]models.QueueEntry(nil), entries...),
		policy:  policy,
	}
	sort.SliceStable(b.entries, func(i, j int) bool {
		return less(b.entries[i], b.entries[j])
	})
	return b
}

func less(a, b models.QueueEntry) bool {
	if a.Sequence != b.Sequence {
		return a.Sequence < b.Sequence
	}
	return a.ID < b.ID
}

func (b *Board) Entries() []models.QueueEntry {
	return append([]models.QueueEntry(nil), b.entries...)
}

// Waiting devolve as entradas "waiting" em ordem de posição.
func (b *Board) Waiting() []models.QueueEntry {
	out := make([]models.QueueEntry, 0, len(b.entries))
	for _, e := range b.entries {
		if Status(e.Status) == StatusWaiting {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func (b *Board) WaitingCount() int {
	n := 0
	for _, e := range b.entries {
		if Status(e.Status) == StatusWaiting {
			n++
		}
	}
	return n
}

func (b *Board) index(appointmentID uint) int {
	for i := range b.entries {
		if b.entries[i].AppointmentID == appointmentID {
			return i
		}
	}
	return -1
}

func (b *Board) Find(appointmentID uint) (models.QueueEntry, bool) {
	i := b.index(appointmentID)
	if i < 0 {
		return models.QueueEntry{}, false
	}
	return b.entries[i], true
}

// Position devolve a posição atual; ok=false se não está aguardando.
func (b *Board) Position(appointmentID uint) (int, bool) {
	e, ok := b.Find(appointmentID)
	if !ok || Status(e.Status) != StatusWaiting {
		return 0, false
	}
	return e.Position, true
}

// Enqueue adiciona no fim da fila: posição = aguardando + 1.
func (b *Board) Enqueue(barbershopID, appointmentID uint, now time.Time) (models.QueueEntry, error) {
	if b.index(appointmentID) >= 0 {
		return models.QueueEntry{}, httperr.ErrConflict("already_in_queue")
	}

	waiting := b.WaitingCount()
	if b.policy.MaxSize > 0 && waiting >= b.policy.MaxSize {
		return models.QueueEntry{}, httperr.ErrConflict("queue_full")
	}

	var seq uint64
	for _, e := range b.entries {
		if e.Sequence > seq {
			seq = e.Sequence
		}
	}

	position := waiting + 1
	entry := models.QueueEntry{
		BarbershopID:  barbershopID,
		AppointmentID: appointmentID,
		Sequence:      seq + 1,
		Position:      position,
		EstimatedWait: EstimatedWait(position, b.policy.AvgServiceMinutes),
		Status:        string(StatusWaiting),
		EnqueuedAt:    now,
	}
	b.entries = append(b.entries, entry)
	return entry, nil
}

// Head devolve a entrada aguardando com menor posição.
func (b *Board) Head() (models.QueueEntry, bool) {
	waiting := b.Waiting()
	if len(waiting) == 0 {
		return models.QueueEntry{}, false
	}
	return waiting[0], true
}

// Call marca a entrada como chamada e compacta as posições restantes.
func (b *Board) Call(appointmentID uint, now time.Time) (models.QueueEntry, []models.QueueEntry, error) {
	i := b.index(appointmentID)
	if i < 0 {
		return models.QueueEntry{}, nil, httperr.ErrNotFound("queue_entry_not_found")
	}
	if Status(b.entries[i].Status) != StatusWaiting {
		return models.QueueEntry{}, nil, httperr.ErrInvalidTransition("entry_not_waiting")
	}

	e := &b.entries[i]
	e.Status = string(StatusCalled)
	e.CalledAt = &now
	e.Position = 0
	e.EstimatedWait = 0

	return *e, b.Renumber(), nil
}

func (b *Board) MarkOnWay(appointmentID uint, now time.Time) (models.QueueEntry, error) {
	i := b.index(appointmentID)
	if i < 0 {
		return models.QueueEntry{}, httperr.ErrNotFound("queue_entry_not_found")
	}
	if Status(b.entries[i].Status) != StatusCalled {
		return models.QueueEntry{}, httperr.ErrInvalidTransition("entry_not_called")
	}

	e := &b.entries[i]
	e.Status = string(StatusOnWay)
	e.OnWayAt = &now
	return *e, nil
}

// Remove tira a entrada da fila (cancelamento/conclusão) e compacta as
// posições. Só quem estava atrás dela desce uma posição.
func (b *Board) Remove(appointmentID uint) (removed models.QueueEntry, moved []models.QueueEntry, ok bool) {
	i := b.index(appointmentID)
	if i < 0 {
		return models.QueueEntry{}, nil, false
	}

	removed = b.entries[i]
	b.entries = append(b.entries[:i], b.entries[i+1:]...)
	return removed, b.Renumber(), true
}

// Renumber recalcula do zero as posições das entradas aguardando, pela ordem
// de chegada, e devolve somente as que mudaram.
func (b *Board) Renumber() []models.QueueEntry {
	var changed []models.QueueEntry

	position := 0
	for i := range b.entries {
		e := &b.entries[i]
		if Status(e.Status) != StatusWaiting {
			continue
		}
		position++
		wait := EstimatedWait(position, b.policy.AvgServiceMinutes)
		if e.Position != position || e.EstimatedWait != wait {
			e.Position = position
			e.EstimatedWait = wait
			changed = append(changed, *e)
		}
	}

	return changed
}
