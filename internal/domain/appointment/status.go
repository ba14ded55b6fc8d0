package appointment

import "github.com/BruksfildServices01/barbershop-scheduler/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusInQueue   Status = "inqueue"
	StatusCalled    Status = "called"
	StatusOnWay     Status = "onway"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Active: ocupa horário na agenda do profissional.
func (s Status) Active() bool {
	return s != StatusCancelled
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Validations
// ===============================

// CanConfirm devolve noop=true quando o agendamento já está confirmado.
func CanConfirm(current Status) (noop bool, err error) {
	switch current {
	case StatusPending:
		return false, nil
	case StatusConfirmed:
		return true, nil
	}
	return false, httperr.ErrInvalidTransition("cannot_confirm")
}

func CanCancel(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrInvalidTransition("cannot_cancel")
	}
	return nil
}

func CanComplete(current Status) error {
	if current.IsTerminal() {
		return httperr.ErrInvalidTransition("cannot_complete")
	}
	return nil
}

// CanEnqueue: só entra na fila quem ainda não foi chamado.
func CanEnqueue(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrInvalidTransition("cannot_enqueue")
	}
	return nil
}

func CanCall(current Status) error {
	if current != StatusInQueue {
		return httperr.ErrInvalidTransition("cannot_call")
	}
	return nil
}

func CanMarkOnWay(current Status) error {
	if current != StatusCalled {
		return httperr.ErrInvalidTransition("cannot_mark_on_way")
	}
	return nil
}
