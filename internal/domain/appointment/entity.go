package appointment

import (
	"time"

	"github.com/BruksfildServices01/barbershop-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// Confirm devolve changed=false quando já estava confirmado (idempotente).
func Confirm(ap *models.Appointment, now time.Time) (changed bool, err error) {
	noop, err := CanConfirm(Status(ap.Status))
	if err != nil || noop {
		return false, err
	}

	ap.Status = string(StatusConfirmed)
	ap.ConfirmedAt = &now
	return true, nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func Enqueue(ap *models.Appointment) error {
	if err := CanEnqueue(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusInQueue)
	return nil
}

func Call(ap *models.Appointment, now time.Time) error {
	if err := CanCall(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCalled)
	ap.CalledAt = &now
	return nil
}

func MarkOnWay(ap *models.Appointment, now time.Time) error {
	if err := CanMarkOnWay(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusOnWay)
	ap.OnWayAt = &now
	return nil
}
